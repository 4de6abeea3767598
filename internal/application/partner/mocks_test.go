package partner

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, scope tenant.Scope, c *partner.Customer) error {
	return m.Called(ctx, scope, c).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, scope, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, scope tenant.Scope, c *partner.Customer) error {
	return m.Called(ctx, scope, c).Error(0)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, scope tenant.Scope, s *partner.Supplier) error {
	return m.Called(ctx, scope, s).Error(0)
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, scope, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]partner.Supplier, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]partner.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) SaveWithLock(ctx context.Context, scope tenant.Scope, s *partner.Supplier) error {
	return m.Called(ctx, scope, s).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
