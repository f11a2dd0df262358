package database_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"vatrefunder/internal/config"
	"vatrefunder/internal/database"
	"vatrefunder/internal/database/dbtest"
	"vatrefunder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrateCreatesLegacyTables(t *testing.T) {
	db := dbtest.Open(t)

	for _, table := range []string{
		"nif_codes", "head_of_accounts", "vouchers", "colleagues", "recipients", "refund_status",
		"invoices_chancery", "invoices_residence", "invoices_personal", "audit_logs",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn(&model.PersonalInvoice{}, "date_refunded"))
}

func TestInvoiceNumberUniquePerCategory(t *testing.T) {
	db := dbtest.Open(t)
	f := dbtest.Seed(t, db)

	inv := model.Invoice{
		SupplierID: f.Supplier.ID,
		Number:     "INV-1",
		Date:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Total:      dbtest.Dec(t, "121.00"),
		Vat:        dbtest.Dec(t, "21.00"),
		Refundable: true,
		Status:     model.StatusPending,
	}
	require.NoError(t, db.Create(&model.ChanceryInvoice{Invoice: inv}).Error)

	err := db.Create(&model.ChanceryInvoice{Invoice: inv}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)

	// the same number is allowed in another category table
	require.NoError(t, db.Create(&model.ResidenceInvoice{Invoice: inv}).Error)
}

func TestIsolationLevel(t *testing.T) {
	assert.Equal(t, sql.LevelRepeatableRead, database.IsolationLevel(config.DriverPostgres))
	assert.Equal(t, sql.LevelDefault, database.IsolationLevel(config.DriverSQLite))
}

func TestNewConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := database.NewConnection(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
