package document

import (
	"context"
	"slices"
	"sync"

	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// memDocuments keeps documents per tenant. Mutate works on a copy and only
// stores it when fn succeeds, which is what the database transaction gives.
type memDocuments struct {
	mu       sync.Mutex
	docs     map[uuid.UUID]*document.Document
	counters map[string]int64
	history  map[uuid.UUID][]document.Transition
}

func newMemDocuments() *memDocuments {
	return &memDocuments{
		docs:     map[uuid.UUID]*document.Document{},
		counters: map[string]int64{},
		history:  map[uuid.UUID][]document.Transition{},
	}
}

func (m *memDocuments) get(scope tenant.Scope, kind document.Kind, id uuid.UUID) (*document.Document, error) {
	d, ok := m.docs[id]
	if !ok || d.TenantID != scope.TenantID() || d.Kind != kind {
		return nil, shared.NewNotFoundError(kind.Label())
	}
	return d, nil
}

func cloneDocument(d *document.Document) *document.Document {
	c := *d
	c.Lines = slices.Clone(d.Lines)
	c.Payments = slices.Clone(d.Payments)
	return &c
}

func (m *memDocuments) Create(_ context.Context, scope tenant.Scope, d *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cat := d.Kind.Category()
	period := cat.Period(d.IssueDate)
	key := scope.TenantID().String() + string(cat) + cat.PeriodPrefix(period)
	m.counters[key]++
	if err := d.AssignNumber(cat.Format(period, m.counters[key])); err != nil {
		return err
	}
	d.MarkPersisted()
	m.docs[d.ID] = d
	return nil
}

func (m *memDocuments) FindByID(_ context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.get(scope, kind, id)
	if err != nil {
		return nil, err
	}
	return cloneDocument(d), nil
}

func (m *memDocuments) List(_ context.Context, scope tenant.Scope, kind document.Kind, _ shared.Filter) ([]document.Document, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []document.Document
	for _, d := range m.docs {
		if d.TenantID == scope.TenantID() && d.Kind == kind {
			out = append(out, *cloneDocument(d))
		}
	}
	return out, int64(len(out)), nil
}

func (m *memDocuments) Mutate(_ context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID, fn document.MutateFunc) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.get(scope, kind, id)
	if err != nil {
		return nil, err
	}
	d := cloneDocument(stored)
	if err := fn(d); err != nil {
		return nil, err
	}
	d.Version++
	m.history[id] = append(m.history[id], d.PendingTransitions()...)
	d.MarkPersisted()
	saved := cloneDocument(d)
	saved.ClearDomainEvents()
	m.docs[id] = saved
	return d, nil
}

func (m *memDocuments) Delete(_ context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.get(scope, kind, id)
	if err != nil {
		return err
	}
	if err := d.EnsureDeletable(); err != nil {
		return err
	}
	delete(m.docs, id)
	return nil
}

func (m *memDocuments) Transitions(_ context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) ([]document.Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.get(scope, kind, id); err != nil {
		return nil, err
	}
	return slices.Clone(m.history[id]), nil
}

func (m *memDocuments) Payments(_ context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) ([]document.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.get(scope, kind, id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(d.Payments), nil
}

// references holds the parties, products and locations a document may point to.
type references struct {
	customers map[uuid.UUID]*partner.Customer
	suppliers map[uuid.UUID]*partner.Supplier
	products  map[uuid.UUID]*catalog.Product
	locations map[uuid.UUID]*tenant.Location
}

func newReferences() *references {
	return &references{
		customers: map[uuid.UUID]*partner.Customer{},
		suppliers: map[uuid.UUID]*partner.Supplier{},
		products:  map[uuid.UUID]*catalog.Product{},
		locations: map[uuid.UUID]*tenant.Location{},
	}
}

type fakeCustomers struct{ *references }

func (f fakeCustomers) Create(context.Context, tenant.Scope, *partner.Customer) error { return nil }
func (f fakeCustomers) ExistsByName(context.Context, tenant.Scope, string, uuid.UUID) (bool, error) {
	return false, nil
}
func (f fakeCustomers) List(context.Context, tenant.Scope, shared.Filter) ([]partner.Customer, int64, error) {
	return nil, 0, nil
}
func (f fakeCustomers) SaveWithLock(context.Context, tenant.Scope, *partner.Customer) error {
	return nil
}
func (f fakeCustomers) FindByID(_ context.Context, scope tenant.Scope, id uuid.UUID) (*partner.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.TenantID != scope.TenantID() {
		return nil, shared.NewNotFoundError("Customer")
	}
	return c, nil
}

type fakeSuppliers struct{ *references }

func (f fakeSuppliers) Create(context.Context, tenant.Scope, *partner.Supplier) error { return nil }
func (f fakeSuppliers) ExistsByName(context.Context, tenant.Scope, string, uuid.UUID) (bool, error) {
	return false, nil
}
func (f fakeSuppliers) List(context.Context, tenant.Scope, shared.Filter) ([]partner.Supplier, int64, error) {
	return nil, 0, nil
}
func (f fakeSuppliers) SaveWithLock(context.Context, tenant.Scope, *partner.Supplier) error {
	return nil
}
func (f fakeSuppliers) FindByID(_ context.Context, scope tenant.Scope, id uuid.UUID) (*partner.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok || s.TenantID != scope.TenantID() {
		return nil, shared.NewNotFoundError("Supplier")
	}
	return s, nil
}

type fakeProducts struct{ *references }

func (f fakeProducts) Create(context.Context, tenant.Scope, *catalog.Product) error { return nil }
func (f fakeProducts) FindByID(_ context.Context, scope tenant.Scope, id uuid.UUID) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok || p.TenantID != scope.TenantID() {
		return nil, shared.NewNotFoundError("Product")
	}
	return p, nil
}
func (f fakeProducts) FindByIDs(_ context.Context, scope tenant.Scope, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.TenantID == scope.TenantID() {
			out = append(out, *p)
		}
	}
	return out, nil
}
func (f fakeProducts) ExistsByName(context.Context, tenant.Scope, string, uuid.UUID) (bool, error) {
	return false, nil
}
func (f fakeProducts) List(context.Context, tenant.Scope, shared.Filter) ([]catalog.Product, int64, error) {
	return nil, 0, nil
}
func (f fakeProducts) SaveWithLock(context.Context, tenant.Scope, *catalog.Product) error {
	return nil
}

type fakeLocations struct{ *references }

func (f fakeLocations) Create(context.Context, tenant.Scope, *tenant.Location) error { return nil }
func (f fakeLocations) FindByID(_ context.Context, scope tenant.Scope, id uuid.UUID) (*tenant.Location, error) {
	l, ok := f.locations[id]
	if !ok || l.TenantID != scope.TenantID() {
		return nil, shared.NewNotFoundError("Location")
	}
	return l, nil
}
func (f fakeLocations) List(context.Context, tenant.Scope, shared.Filter) ([]tenant.Location, int64, error) {
	return nil, 0, nil
}
func (f fakeLocations) SaveWithLock(context.Context, tenant.Scope, *tenant.Location) error {
	return nil
}

// recordingPublisher collects published event types.
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}

func (p *recordingPublisher) take() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.types
	p.types = nil
	return out
}
