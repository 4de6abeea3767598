package tenant

import (
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Industries", "acme-industries"},
		{"  Crème Brûlée  Works ", "creme-brulee-works"},
		{"Foo & Bar, Ltd.", "foo-bar-ltd"},
		{"a---b", "a-b"},
		{"--edge--", "edge"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSlug(tt.in))
		})
	}
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("acme-1"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("Acme"))
	assert.Error(t, ValidateSlug("acme--1"))
}

func TestNewTenant(t *testing.T) {
	t.Run("creates active tenant with registration event", func(t *testing.T) {
		tn, err := NewTenant("Acme", "acme")
		require.NoError(t, err)
		assert.True(t, tn.IsActive())
		assert.Equal(t, DefaultCurrency, tn.Currency)
		require.Len(t, tn.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeRegistered, tn.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("   ", "acme")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestTenant_Deactivate(t *testing.T) {
	tn, err := NewTenant("Acme", "acme")
	require.NoError(t, err)

	require.NoError(t, tn.Deactivate())
	assert.False(t, tn.IsActive())
	assert.ErrorIs(t, tn.Deactivate(), shared.ErrConflict)
}

func TestRole_Can(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleOwner, ActionAdminister, true},
		{RoleAdmin, ActionDelete, true},
		{RoleAdmin, ActionAdminister, false},
		{RoleManager, ActionWrite, true},
		{RoleManager, ActionDelete, false},
		{RoleEmployee, ActionRead, true},
		{RoleEmployee, ActionWrite, false},
		{Role("GUEST"), ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.action))
		})
	}
}

func TestScope(t *testing.T) {
	var zero Scope
	assert.False(t, zero.Valid())
	assert.ErrorIs(t, zero.Require(ActionRead), shared.ErrForbidden)

	s := TrustedScope(uuid.New(), uuid.New())
	assert.True(t, s.Valid())
	assert.NoError(t, s.Require(ActionAdminister))
}

func TestNewRegistration(t *testing.T) {
	owner := uuid.New()
	reg, err := NewRegistration("Acme", "acme", owner)
	require.NoError(t, err)

	assert.Equal(t, reg.Tenant.ID, reg.Owner.TenantID)
	assert.Equal(t, RoleOwner, reg.Owner.Role)
	assert.Equal(t, reg.Tenant.ID, reg.HeadOffice.TenantID)
	assert.True(t, reg.HeadOffice.IsHeadquarters)
	assert.Equal(t, DefaultLocationName, reg.HeadOffice.Name)

	_, err = NewRegistration("Acme", "acme", uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLocation_Deactivate(t *testing.T) {
	reg, err := NewRegistration("Acme", "acme", uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, reg.HeadOffice.Deactivate(), shared.ErrConflict)

	loc, err := NewLocation(TrustedScope(reg.Tenant.ID, uuid.New()), "Plant 2", LocationFactory)
	require.NoError(t, err)
	require.NoError(t, loc.Deactivate())
	assert.False(t, loc.IsActive)
}
