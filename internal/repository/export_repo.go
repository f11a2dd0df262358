package repository

import (
	"context"
	"time"

	"vatrefunder/internal/model"

	"gorm.io/gorm"
)

// ExportQuery selects refundable invoices of one category dated in [From, To).
type ExportQuery struct {
	Category     model.Category
	From         time.Time
	To           time.Time
	WithVouchers bool
	ColleagueID  *uint
}

// ExportRepository feeds the VAT export engine.
type ExportRepository interface {
	FetchRecords(ctx context.Context, q ExportQuery) ([]model.ExportRecord, error)
}

type exportRepository struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) ExportRepository {
	return &exportRepository{db: db}
}

// FetchRecords returns rows ordered by supplier tax code, date and number.
// Personal rows are additionally grouped by colleague first.
func (r *exportRepository) FetchRecords(ctx context.Context, q ExportQuery) ([]model.ExportRecord, error) {
	columns := []string{
		"s.supplier_nif_code AS tax_code",
		"s.supplier_name AS supplier_name",
		"i.number AS number",
		"i.date AS date",
		"i.total AS total",
		"i.vat AS vat",
	}

	query := GetDB(ctx, r.db).
		Table(q.Category.Table()+" AS i").
		Joins("JOIN nif_codes s ON s.supplier_id = i.supplier_id").
		Where("i.refundable = ?", true).
		Where("i.date >= ? AND i.date < ?", q.From, q.To)

	if q.WithVouchers {
		columns = append(columns, "v.voucher_number AS voucher_number", "h.name AS budget_head")
		query = query.
			Joins("LEFT JOIN vouchers v ON v.voucher_id = i.voucher_id").
			Joins("LEFT JOIN head_of_accounts h ON h.head_of_accounts_id = v.head_of_accounts_id")
	}

	order := "s.supplier_nif_code, i.date, i.number"
	if q.Category == model.CategoryPersonal {
		columns = append(columns,
			"c.colleague_id AS colleague_id",
			"c.colleague_name AS colleague_name",
			"c.nie AS colleague_nie",
			"c.service_office AS service_office",
		)
		query = query.Joins("JOIN colleagues c ON c.colleague_id = i.colleague_id")
		if q.ColleagueID != nil {
			query = query.Where("i.colleague_id = ?", *q.ColleagueID)
		}
		order = "c.colleague_name, c.colleague_id, " + order
	}

	var records []model.ExportRecord
	if err := query.Select(columns).Order(order).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
