package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/sequence"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/persistence/models"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSequenceRetries bounds how often a create is re-run after a unique
// violation on the allocated code.
const DefaultSequenceRetries = 5

// codeSource is the table whose existing codes seed a new counter row.
type codeSource struct {
	model  func() any
	column string
	kind   document.Kind
}

var codeSources = map[sequence.Category]codeSource{
	sequence.CategoryCustomer:      {model: func() any { return &models.CustomerModel{} }, column: "code"},
	sequence.CategorySupplier:      {model: func() any { return &models.SupplierModel{} }, column: "code"},
	sequence.CategoryOrder:         {model: func() any { return &models.DocumentModel{} }, column: "number", kind: document.KindOrder},
	sequence.CategoryInvoice:       {model: func() any { return &models.DocumentModel{} }, column: "number", kind: document.KindInvoice},
	sequence.CategoryBill:          {model: func() any { return &models.DocumentModel{} }, column: "number", kind: document.KindBill},
	sequence.CategoryPurchaseOrder: {model: func() any { return &models.DocumentModel{} }, column: "number", kind: document.KindPurchaseOrder},
}

// CodeSequencer allocates sequential codes from a per (tenant, category,
// period) counter row. The increment runs on the caller's transaction, so
// the counter only advances when the record that uses the code commits.
type CodeSequencer struct {
	maxRetries int
}

// NewCodeSequencer creates a sequencer. maxRetries <= 0 uses the default.
func NewCodeSequencer(maxRetries int) *CodeSequencer {
	if maxRetries <= 0 {
		maxRetries = DefaultSequenceRetries
	}
	return &CodeSequencer{maxRetries: maxRetries}
}

// Next increments the counter and returns the formatted code. tx must be a
// tenant-bound transaction.
func (s *CodeSequencer) Next(tx *gorm.DB, category sequence.Category, period int) (string, error) {
	if !category.IsValid() {
		return "", fmt.Errorf("unknown code category %q", category)
	}
	tenantID, ok := tenantdb.BoundTenant(tx)
	if !ok {
		return "", tenantdb.ErrTenantIDRequired
	}

	// Two rounds: a concurrent seed insert can win the race for the counter
	// row, after which the increment finds it.
	for round := 0; round < 2; round++ {
		n, found, err := s.increment(tx, category, period)
		if err != nil {
			return "", err
		}
		if found {
			return category.Format(period, n), nil
		}

		seed, err := s.highestExisting(tx, category, period)
		if err != nil {
			return "", err
		}
		row := &models.CodeSequenceModel{
			TenantID:  tenantID,
			Category:  string(category),
			Period:    period,
			LastValue: seed + 1,
			UpdatedAt: time.Now().UTC(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return "", fmt.Errorf("seed %s sequence: %w", category, res.Error)
		}
		if res.RowsAffected == 1 {
			return category.Format(period, row.LastValue), nil
		}
	}
	return "", shared.NewConflictError(fmt.Sprintf("Could not allocate the next %s code; please retry", category))
}

func (s *CodeSequencer) increment(tx *gorm.DB, category sequence.Category, period int) (int64, bool, error) {
	res := tx.Model(&models.CodeSequenceModel{}).
		Where("category = ? AND period = ?", string(category), period).
		Updates(map[string]any{
			"last_value": gorm.Expr("last_value + ?", 1),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, false, fmt.Errorf("increment %s sequence: %w", category, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}

	var row models.CodeSequenceModel
	if err := tx.Where("category = ? AND period = ?", string(category), period).First(&row).Error; err != nil {
		return 0, false, fmt.Errorf("read %s sequence: %w", category, err)
	}
	return row.LastValue, true, nil
}

// highestExisting scans the codes already issued for the period, so a
// counter created after data was imported continues from the real maximum.
func (s *CodeSequencer) highestExisting(tx *gorm.DB, category sequence.Category, period int) (int64, error) {
	src := codeSources[category]
	q := tx.Model(src.model()).Where(src.column+" LIKE ?", category.PeriodPrefix(period)+"%")
	if src.kind != "" {
		q = q.Where("kind = ?", src.kind)
	}
	var codes []string
	if err := q.Pluck(src.column, &codes).Error; err != nil {
		return 0, fmt.Errorf("scan existing %s codes: %w", category, err)
	}
	return category.Highest(period, codes), nil
}

// Retry runs create until it succeeds, fails with something other than a
// unique violation, or the retry budget is spent. create must open its own
// transaction so every attempt recomputes the code.
func (s *CodeSequencer) Retry(ctx context.Context, category sequence.Category, create func() error) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = create()
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return shared.NewConflictError(fmt.Sprintf(
		"Could not allocate a unique %s code after %d attempts; please retry", category, s.maxRetries))
}
