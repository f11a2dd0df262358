package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionRecordInvoice  = "RECORD_INVOICE"
	ActionRecordVoucher  = "RECORD_VOUCHER"
	ActionImportBatch    = "IMPORT_BATCH"
	ActionBuildExport    = "BUILD_EXPORT"
	ActionCreateSupplier = "CREATE_SUPPLIER"
)

// ValidAction reports whether action is one the application records.
func ValidAction(action string) bool {
	switch action {
	case ActionRecordInvoice, ActionRecordVoucher, ActionImportBatch, ActionBuildExport, ActionCreateSupplier:
		return true
	}
	return false
}

// AuditLog tracks what was written or produced and when
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns the id client side so SQLite and PostgreSQL behave alike.
func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
