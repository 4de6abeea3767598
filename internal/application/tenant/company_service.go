// Package tenant implements company registration, membership management and
// locations.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appevent "github.com/forgeledger/backend/internal/application/event"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// slugAttempts bounds how often registration recomputes a slug that was
// taken by a concurrent registration.
const slugAttempts = 3

// CompanyService handles company registration and membership
type CompanyService struct {
	tenants     tenant.Repository
	memberships tenant.MembershipRepository
	events      *appevent.Dispatcher
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	tenants tenant.Repository,
	memberships tenant.MembershipRepository,
	events *appevent.Dispatcher,
) *CompanyService {
	return &CompanyService{tenants: tenants, memberships: memberships, events: events}
}

// Register creates a company owned by actorID, together with the owner
// membership and the head office location. A taken slug gets the first free
// numeric suffix.
func (s *CompanyService) Register(ctx context.Context, actorID uuid.UUID, req RegisterCompanyRequest) (_ *CompanyResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "company", "register")
	defer func() { telemetry.EndSpan(span, err) }()

	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	requested := req.Slug
	if strings.TrimSpace(requested) == "" {
		requested = req.Name
	}
	base := tenant.NormalizeSlug(requested)
	if base == "" {
		return nil, shared.NewFieldError("slug", "Slug must contain at least one letter or digit", requested)
	}

	var reg *tenant.Registration
	for attempt := 1; ; attempt++ {
		slug, err := s.freeSlug(ctx, base)
		if err != nil {
			return nil, err
		}
		reg, err = tenant.NewRegistration(req.Name, slug, actorID)
		if err != nil {
			return nil, err
		}
		err = s.tenants.Register(ctx, reg)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt >= slugAttempts {
			return nil, err
		}
	}

	logger.FromContext(ctx).Info("company registered",
		zap.String("tenant_id", reg.Tenant.ID.String()),
		zap.String("slug", reg.Tenant.Slug),
	)
	s.events.Dispatch(ctx, reg.Tenant)

	resp := ToCompanyResponse(reg.Tenant)
	resp.Role = string(tenant.RoleOwner)
	return &resp, nil
}

// freeSlug returns base, or base-N for the smallest N not yet taken.
func (s *CompanyService) freeSlug(ctx context.Context, base string) (string, error) {
	taken, err := s.tenants.SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", err
	}
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	if !used[base] {
		return base, nil
	}
	for n := 1; ; n++ {
		suffix := fmt.Sprintf("-%d", n)
		stem := base
		if len(stem)+len(suffix) > 100 {
			stem = strings.TrimRight(stem[:100-len(suffix)], "-")
		}
		if candidate := stem + suffix; !used[candidate] {
			return candidate, nil
		}
	}
}

// ListMine returns the active companies actorID is a member of, with the
// member's role in each.
func (s *CompanyService) ListMine(ctx context.Context, actorID uuid.UUID) ([]CompanyResponse, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	memberships, err := s.memberships.ListByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []CompanyResponse{}, nil
	}
	roles := make(map[uuid.UUID]tenant.Role, len(memberships))
	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		roles[m.TenantID] = m.Role
		ids = append(ids, m.TenantID)
	}
	tenants, err := s.tenants.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]CompanyResponse, 0, len(tenants))
	for i := range tenants {
		if !tenants[i].IsActive() {
			continue
		}
		resp := ToCompanyResponse(&tenants[i])
		resp.Role = string(roles[tenants[i].ID])
		out = append(out, resp)
	}
	return out, nil
}

// Get returns the company of scope.
func (s *CompanyService) Get(ctx context.Context, scope tenant.Scope) (*CompanyResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	t, err := s.tenants.FindByID(ctx, scope.TenantID())
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(t)
	resp.Role = string(scope.Role())
	return &resp, nil
}

// Deactivate soft-deactivates the company. Only an owner may do this.
func (s *CompanyService) Deactivate(ctx context.Context, scope tenant.Scope) (_ *CompanyResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "company", "deactivate",
		attribute.String("tenant.id", scope.TenantID().String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionAdminister); err != nil {
		return nil, err
	}
	t, err := s.tenants.FindByID(ctx, scope.TenantID())
	if err != nil {
		return nil, err
	}
	if err := t.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.tenants.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Warn("company deactivated", zap.String("tenant_id", t.ID.String()))

	resp := ToCompanyResponse(t)
	resp.Role = string(scope.Role())
	return &resp, nil
}

// AddMember grants req.UserID a role in the company. Owners and admins may
// add members; only an owner may grant OWNER.
func (s *CompanyService) AddMember(ctx context.Context, scope tenant.Scope, req AddMemberRequest) (*MemberResponse, error) {
	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	if r := scope.Role(); r != tenant.RoleOwner && r != tenant.RoleAdmin {
		return nil, shared.NewForbiddenError("Only owners and admins can add members")
	}
	role := tenant.Role(req.Role)
	if role == tenant.RoleOwner && scope.Role() != tenant.RoleOwner {
		return nil, shared.NewForbiddenError("Only an owner can grant the OWNER role")
	}
	m, err := tenant.NewMembership(scope.TenantID(), req.UserID, role)
	if err != nil {
		return nil, err
	}
	if err := s.memberships.Create(ctx, scope, m); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("member added",
		zap.String("member_user_id", m.UserID.String()),
		zap.String("member_role", string(m.Role)),
	)
	resp := ToMemberResponse(m)
	return &resp, nil
}
