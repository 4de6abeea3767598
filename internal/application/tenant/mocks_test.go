package tenant

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockTenantRepository struct {
	mock.Mock
}

func (m *mockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *mockTenantRepository) FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *mockTenantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tenant.Tenant, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]tenant.Tenant), args.Error(1)
}

func (m *mockTenantRepository) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	args := m.Called(ctx, base)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockTenantRepository) Register(ctx context.Context, reg *tenant.Registration) error {
	return m.Called(ctx, reg).Error(0)
}

func (m *mockTenantRepository) SaveWithLock(ctx context.Context, t *tenant.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

type mockMembershipRepository struct {
	mock.Mock
}

func (m *mockMembershipRepository) FindByTenantAndUser(ctx context.Context, tenantID, userID uuid.UUID) (*tenant.Membership, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Membership), args.Error(1)
}

func (m *mockMembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]tenant.Membership, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]tenant.Membership), args.Error(1)
}

func (m *mockMembershipRepository) Create(ctx context.Context, scope tenant.Scope, mb *tenant.Membership) error {
	return m.Called(ctx, scope, mb).Error(0)
}

type mockLocationRepository struct {
	mock.Mock
}

func (m *mockLocationRepository) Create(ctx context.Context, scope tenant.Scope, l *tenant.Location) error {
	return m.Called(ctx, scope, l).Error(0)
}

func (m *mockLocationRepository) FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*tenant.Location, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Location), args.Error(1)
}

func (m *mockLocationRepository) List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]tenant.Location, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]tenant.Location), args.Get(1).(int64), args.Error(2)
}

func (m *mockLocationRepository) SaveWithLock(ctx context.Context, scope tenant.Scope, l *tenant.Location) error {
	return m.Called(ctx, scope, l).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
