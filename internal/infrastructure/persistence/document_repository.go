package persistence

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/persistence/models"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentRepository implements document.Repository using GORM. One
// table holds every kind; each statement filters on kind as well as tenant.
type GormDocumentRepository struct {
	db        *gorm.DB
	sequencer *CodeSequencer
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB, sequencer *CodeSequencer) *GormDocumentRepository {
	return &GormDocumentRepository{db: db, sequencer: sequencer}
}

// Create numbers the document from its kind's yearly sequence and inserts
// it with its lines.
func (r *GormDocumentRepository) Create(ctx context.Context, scope tenant.Scope, d *document.Document) error {
	category := d.Kind.Category()
	period := category.Period(d.IssueDate)

	var number string
	err := r.sequencer.Retry(ctx, category, func() error {
		return tenantdb.Transaction(ctx, r.db, scope, func(tx *gorm.DB) error {
			var err error
			number, err = r.sequencer.Next(tx, category, period)
			if err != nil {
				return err
			}
			model := models.DocumentModelFromDomain(d)
			model.Number = number
			if err := tx.Create(model).Error; err != nil {
				return err
			}
			return r.insertChildren(tx, d)
		})
	})
	if err != nil {
		return err
	}
	if err := d.AssignNumber(number); err != nil {
		return err
	}
	d.MarkPersisted()
	return nil
}

// FindByID loads a document with its lines and payments
func (r *GormDocumentRepository) FindByID(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) (*document.Document, error) {
	return r.load(tenantdb.DB(ctx, r.db, scope), kind, id, false)
}

// List returns one page of document headers and the total count. Lines
// and payments are not loaded.
func (r *GormDocumentRepository) List(ctx context.Context, scope tenant.Scope, kind document.Kind, filter shared.Filter) ([]document.Document, int64, error) {
	filter = filter.Normalize()
	query := tenantdb.DB(ctx, r.db, scope).Model(&models.DocumentModel{}).Where("kind = ?", kind)
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where("(LOWER(number) LIKE ?"+likeEscape+" OR LOWER(counterparty_name) LIKE ?"+likeEscape+")", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case document.FilterStatus:
			query = query.Where("status = ?", value)
		case document.FilterCounterpartyID:
			query = query.Where("counterparty_id = ?", value)
		}
	}
	if filter.FromDate != nil {
		query = query.Where("issue_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("issue_date <= ?", *filter.ToDate)
	}

	var rows []models.DocumentModel
	total, err := listPage(query, filter, DocumentSortFields, "issue_date", &rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]document.Document, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(nil, nil)
	}
	return out, total, nil
}

// Mutate loads the document under a row lock, applies fn and writes the
// result back in the same transaction.
func (r *GormDocumentRepository) Mutate(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID, fn document.MutateFunc) (*document.Document, error) {
	var out *document.Document
	err := tenantdb.Transaction(ctx, r.db, scope, func(tx *gorm.DB) error {
		d, err := r.load(tx, kind, id, true)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}

		model := models.DocumentModelFromDomain(d)
		model.Version = d.Version + 1
		if err := saveWithLock(tx, model, d.ID, d.Version); err != nil {
			return err
		}
		if d.LinesChanged() {
			if err := tx.Where("document_id = ?", d.ID).Delete(&models.DocumentLineModel{}).Error; err != nil {
				return err
			}
		}
		if err := r.insertChildren(tx, d); err != nil {
			return err
		}
		d.Version = model.Version
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.MarkPersisted()
	return out, nil
}

// Delete removes a draft document and its lines
func (r *GormDocumentRepository) Delete(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) error {
	return tenantdb.Transaction(ctx, r.db, scope, func(tx *gorm.DB) error {
		d, err := r.load(tx, kind, id, true)
		if err != nil {
			return err
		}
		if err := d.EnsureDeletable(); err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&models.DocumentLineModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("kind = ? AND id = ? AND version = ?", kind, id, d.Version).Delete(&models.DocumentModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Transitions returns the status history of a document, oldest first
func (r *GormDocumentRepository) Transitions(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) ([]document.Transition, error) {
	db := tenantdb.DB(ctx, r.db, scope)
	if err := r.ensureExists(db, kind, id); err != nil {
		return nil, err
	}
	var rows []models.TransitionModel
	if err := db.Where("document_id = ?", id).Order("occurred_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]document.Transition, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Payments returns the payments recorded against a document, oldest first
func (r *GormDocumentRepository) Payments(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) ([]document.Payment, error) {
	db := tenantdb.DB(ctx, r.db, scope)
	if err := r.ensureExists(db, kind, id); err != nil {
		return nil, err
	}
	payments, err := r.payments(db, id)
	if err != nil {
		return nil, err
	}
	out := make([]document.Payment, len(payments))
	for i := range payments {
		out[i] = payments[i].ToDomain()
	}
	return out, nil
}

func (r *GormDocumentRepository) load(db *gorm.DB, kind document.Kind, id uuid.UUID, lock bool) (*document.Document, error) {
	query := db.Where("kind = ? AND id = ?", kind, id)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model models.DocumentModel
	if err := findOne(query, &model, kind.Label()); err != nil {
		return nil, err
	}

	var lines []models.DocumentLineModel
	if err := db.Where("document_id = ?", id).Order("line_number ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	payments, err := r.payments(db, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(lines, payments), nil
}

func (r *GormDocumentRepository) payments(db *gorm.DB, documentID uuid.UUID) ([]models.PaymentModel, error) {
	var rows []models.PaymentModel
	err := db.Where("document_id = ?", documentID).Order("paid_at ASC").Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *GormDocumentRepository) ensureExists(db *gorm.DB, kind document.Kind, id uuid.UUID) error {
	var model models.DocumentModel
	return findOne(db.Select("id").Where("kind = ? AND id = ?", kind, id), &model, kind.Label())
}

// insertChildren writes the lines when they changed, plus every pending
// transition and payment.
func (r *GormDocumentRepository) insertChildren(tx *gorm.DB, d *document.Document) error {
	if d.LinesChanged() {
		if lines := models.DocumentLineModelsFromDomain(d); len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
	}
	for _, p := range d.PendingPayments() {
		if err := tx.Create(models.PaymentModelFromDomain(p)).Error; err != nil {
			return err
		}
	}
	for _, t := range d.PendingTransitions() {
		model, err := models.TransitionModelFromDomain(t)
		if err != nil {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormDocumentRepository implements document.Repository
var _ document.Repository = (*GormDocumentRepository)(nil)
