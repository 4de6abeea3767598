// Package app wires repositories, services and HTTP handlers into a ready
// router. The server binary and the end-to-end tests share it so both run
// the same graph.
package app

import (
	"context"
	"time"

	catalogapp "github.com/forgeledger/backend/internal/application/catalog"
	docapp "github.com/forgeledger/backend/internal/application/document"
	appevent "github.com/forgeledger/backend/internal/application/event"
	partnerapp "github.com/forgeledger/backend/internal/application/partner"
	tenantapp "github.com/forgeledger/backend/internal/application/tenant"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/event"
	"github.com/forgeledger/backend/internal/infrastructure/persistence"
	"github.com/forgeledger/backend/internal/interfaces/http/handler"
	"github.com/forgeledger/backend/internal/interfaces/http/middleware"
	"github.com/forgeledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options are the infrastructure pieces the graph is built from.
type Options struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Tokens middleware.TokenValidator

	// Idempotency is optional. Without a store, Idempotency-Key is ignored.
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration

	SequenceRetries int

	// Subscribers receive every committed domain event next to the audit log.
	Subscribers []shared.EventHandler

	// Readiness adds probes to /ready on top of the database ping.
	Readiness   []handler.ReadinessCheck
	ServiceName string
	Version     string
}

// App holds the built graph.
type App struct {
	Bus       *event.InMemoryEventBus
	Guard     *tenant.Guard
	Companies *tenantapp.CompanyService
	Locations *tenantapp.LocationService
	Customers *partnerapp.CustomerService
	Suppliers *partnerapp.SupplierService
	Products  *catalogapp.ProductService
	Documents *docapp.DocumentService

	opts Options
}

// New builds repositories and services on opts.DB.
func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	seq := persistence.NewCodeSequencer(opts.SequenceRetries)
	tenants := persistence.NewGormTenantRepository(opts.DB)
	memberships := persistence.NewGormMembershipRepository(opts.DB)
	locations := persistence.NewGormLocationRepository(opts.DB)
	customers := persistence.NewGormCustomerRepository(opts.DB, seq)
	suppliers := persistence.NewGormSupplierRepository(opts.DB, seq)
	products := persistence.NewGormProductRepository(opts.DB)
	documents := persistence.NewGormDocumentRepository(opts.DB, seq)

	bus := event.NewInMemoryEventBus(opts.Logger)
	bus.Subscribe(event.NewLoggingHandler(opts.Logger))
	for _, h := range opts.Subscribers {
		bus.Subscribe(h)
	}
	events := appevent.NewDispatcher(bus, opts.Logger)

	return &App{
		Bus:       bus,
		Guard:     tenant.NewGuard(tenants, memberships),
		Companies: tenantapp.NewCompanyService(tenants, memberships, events),
		Locations: tenantapp.NewLocationService(locations),
		Customers: partnerapp.NewCustomerService(customers, events),
		Suppliers: partnerapp.NewSupplierService(suppliers, events),
		Products:  catalogapp.NewProductService(products),
		Documents: docapp.NewDocumentService(docapp.Deps{
			Documents: documents,
			Customers: customers,
			Suppliers: suppliers,
			Products:  products,
			Locations: locations,
			Events:    events,
		}),
		opts: opts,
	}
}

// Routes registers every handler on engine and finalizes the router.
func (a *App) Routes(engine *gin.Engine) {
	scope := []gin.HandlerFunc{middleware.TenantScope(a.Guard)}
	if a.opts.Idempotency != nil {
		scope = append(scope, middleware.Idempotency(a.opts.Idempotency, a.opts.IdempotencyTTL))
	}

	r := router.NewRouter(engine,
		router.WithAuthentication(middleware.Authenticate(a.opts.Tokens)),
		router.WithTenantScope(scope...),
	)

	system := handler.NewSystemHandler(a.opts.ServiceName, a.opts.Version,
		append([]handler.ReadinessCheck{{Name: "database", Check: a.pingDB}}, a.opts.Readiness...)...)
	companies := handler.NewCompanyHandler(a.Companies)

	r.RegisterPublic(system).
		Register(companies).
		RegisterScoped(companies).
		RegisterScoped(handler.NewLocationHandler(a.Locations)).
		RegisterScoped(handler.NewCustomerHandler(a.Customers)).
		RegisterScoped(handler.NewSupplierHandler(a.Suppliers)).
		RegisterScoped(handler.NewProductHandler(a.Products))
	for _, h := range handler.NewDocumentHandlers(a.Documents) {
		r.RegisterScoped(h)
	}

	r.Setup()
}

// Stop drops events published after shutdown began.
func (a *App) Stop() {
	a.Bus.Stop()
}

func (a *App) pingDB(ctx context.Context) error {
	sqlDB, err := a.opts.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
