package tenant

import (
	"time"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is a member's role within one tenant.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// IsValid checks if the role is a valid value
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Action is a coarse permission class checked against a role.
type Action string

const (
	ActionRead       Action = "read"
	ActionWrite      Action = "write"
	ActionDelete     Action = "delete"
	ActionAdminister Action = "administer"
)

var rolePermissions = map[Role]map[Action]bool{
	RoleOwner:    {ActionRead: true, ActionWrite: true, ActionDelete: true, ActionAdminister: true},
	RoleAdmin:    {ActionRead: true, ActionWrite: true, ActionDelete: true},
	RoleManager:  {ActionRead: true, ActionWrite: true},
	RoleEmployee: {ActionRead: true},
}

// Can reports whether the role grants action.
func (r Role) Can(action Action) bool {
	return rolePermissions[r][action]
}

// Membership links a user to a tenant with a role.
type Membership struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}

// NewMembership creates an active membership.
func NewMembership(tenantID, userID uuid.UUID, role Role) (*Membership, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewFieldError("tenant_id", "Tenant ID cannot be empty", nil)
	}
	if userID == uuid.Nil {
		return nil, shared.NewFieldError("user_id", "User ID cannot be empty", nil)
	}
	if !role.IsValid() {
		return nil, shared.NewFieldError("role", "Role must be one of OWNER ADMIN MANAGER EMPLOYEE", string(role))
	}
	return &Membership{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
	}, nil
}
