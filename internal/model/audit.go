package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionGenerateTaxRecord = "GENERATE_TAX_RECORD"
	ActionPayTaxRecord      = "PAY_TAX_RECORD"
	ActionValidateTaxRecord = "VALIDATE_TAX_RECORD"
)

// AuditLog tracks Who, What, and When for every applied tax transition
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(100);index" json:"user_id"` // JWT subject; empty for automated callers
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`        // ledger key (plate-year)
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // human readable label
	Details    string    `gorm:"type:jsonb" json:"details"`                      // serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
