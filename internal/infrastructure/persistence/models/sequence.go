package models

import (
	"time"

	"github.com/google/uuid"
)

// CodeSequenceModel is the counter row of one (tenant, category, period)
// code family. LastValue is the number of the most recently issued code.
type CodeSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Category  string    `gorm:"type:varchar(30);primaryKey"`
	Period    int       `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CodeSequenceModel) TableName() string {
	return "code_sequences"
}
