// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"vatrefunder/internal/config"
	"vatrefunder/internal/database"
	"vatrefunder/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Config returns a sqlite configuration pointing into a fresh temp dir.
func Config(t testing.TB) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "vat.db"),
	}
}

// Open returns a migrated database that is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewConnection(Config(t))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Fixtures are the reference rows seeded by Seed.
type Fixtures struct {
	Supplier      model.Supplier
	OtherSupplier model.Supplier
	BudgetHead    model.BudgetHead
	Colleague     model.Colleague
	Recipient     model.Recipient
	RefundStatus  model.RefundStatus
}

// Seed inserts a small set of reference data.
func Seed(t testing.TB, db *gorm.DB) Fixtures {
	t.Helper()
	f := Fixtures{
		Supplier:      model.Supplier{TaxCode: "B12345678", Name: "ACME SL"},
		OtherSupplier: model.Supplier{TaxCode: "A00000001", Name: "Iberdrola"},
		BudgetHead:    model.BudgetHead{Name: "Utilities"},
		Colleague:     model.Colleague{Name: "Jane Roe", NIE: "X1234567L", ServiceOffice: "Consular", RankID: 2},
		Recipient:     model.Recipient{Name: "Embassy"},
		RefundStatus:  model.RefundStatus{Type: "Submitted"},
	}
	require.NoError(t, db.Create(&f.Supplier).Error)
	require.NoError(t, db.Create(&f.OtherSupplier).Error)
	require.NoError(t, db.Create(&f.BudgetHead).Error)
	require.NoError(t, db.Create(&f.Colleague).Error)
	require.NoError(t, db.Create(&f.Recipient).Error)
	require.NoError(t, db.Create(&f.RefundStatus).Error)
	return f
}

// Dec parses a decimal literal or fails the test.
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
