package partner

import (
	"context"
	"strings"

	appevent "github.com/forgeledger/backend/internal/application/event"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	events       *appevent.Dispatcher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, events *appevent.Dispatcher) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, events: events}
}

// Create validates the profile, allocates the next CUST code and stores the
// customer.
func (s *CustomerService) Create(ctx context.Context, scope tenant.Scope, req CustomerRequest) (_ *CustomerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(scope, req.profile())
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, scope, customer); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("code", customer.Code),
	)
	s.events.Dispatch(ctx, customer)

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*CustomerResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves one page of customers
func (s *CustomerService) List(ctx context.Context, scope tenant.Scope, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	f := listFilter(strings.TrimSpace(filter.Search), filter.Page, filter.Limit, filter.OrderBy, filter.OrderDir)
	if filter.CustomerType != "" {
		f.Filters[partner.FilterCustomerType] = filter.CustomerType
	}
	if filter.Category != "" {
		f.Filters[partner.FilterCategory] = filter.Category
	}
	if filter.IsActive != nil {
		f.Filters[partner.FilterIsActive] = *filter.IsActive
	}
	f = f.Normalize()

	customers, total, err := s.customerRepo.List(ctx, scope, f)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces the profile of an active customer. The code never changes.
func (s *CustomerService) Update(ctx context.Context, scope tenant.Scope, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	profile := req.profile()
	if partner.NameKey(profile.Name) != customer.NameKey() {
		taken, err := s.customerRepo.ExistsByName(ctx, scope, profile.Name, customer.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewAlreadyExistsError("Customer", "name", strings.TrimSpace(profile.Name))
		}
	}
	if err := customer.Update(profile); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, scope, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Deactivate soft-deletes a customer
func (s *CustomerService) Deactivate(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*CustomerResponse, error) {
	return s.setActive(ctx, scope, id, false)
}

// Activate restores a soft-deleted customer
func (s *CustomerService) Activate(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*CustomerResponse, error) {
	return s.setActive(ctx, scope, id, true)
}

func (s *CustomerService) setActive(ctx context.Context, scope tenant.Scope, id uuid.UUID, active bool) (*CustomerResponse, error) {
	if err := scope.Require(tenant.ActionDelete); err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if active {
		err = customer.Activate()
	} else {
		err = customer.Deactivate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, scope, customer); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("customer status changed",
		zap.String("customer_id", customer.ID.String()),
		zap.Bool("is_active", active),
	)
	resp := ToCustomerResponse(customer)
	return &resp, nil
}
