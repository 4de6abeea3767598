package telemetry

import (
	"fmt"

	"github.com/forgeledger/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// InstrumentDB adds SQL spans to every statement run through db. Bound
// values are left out of the spans unless full SQL logging is enabled.
func InstrumentDB(db *gorm.DB, driver string, cfg config.TelemetryConfig) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(driver)}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm: %w", err)
	}
	return nil
}
