package persistence

import (
	"errors"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// immutableColumns are never rewritten by saveWithLock.
var immutableColumns = []string{"id", "tenant_id", "created_at", "created_by", "code", "number", "kind"}

// saveWithLock writes every mutable column of model (zero values included)
// if the stored version still equals version, and stores version+1. The
// caller sets the model's Version to version+1 beforehand.
func saveWithLock(tx *gorm.DB, model any, id uuid.UUID, version int) error {
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, version).
		Select("*").
		Omit(immutableColumns...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// findOne maps a missing row to NotFound for entity.
func findOne(query *gorm.DB, dest any, entity string) error {
	if err := query.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(entity)
		}
		return err
	}
	return nil
}

// nameTaken reports whether a row of model's table other than excludeID
// already uses nameKey. query must be tenant-bound.
func nameTaken(query *gorm.DB, model any, nameKey string, excludeID uuid.UUID) (bool, error) {
	q := query.Model(model).Where("name_key = ?", nameKey)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
