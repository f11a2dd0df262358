package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportRecord is one selected invoice row flattened for reporting.
// Voucher and colleague columns are only populated by the scopes that join them.
type ExportRecord struct {
	TaxCode       string          `gorm:"column:tax_code" json:"tax_code"`
	SupplierName  string          `gorm:"column:supplier_name" json:"supplier_name"`
	Number        string          `gorm:"column:number" json:"number"`
	Date          time.Time       `gorm:"column:date" json:"date"`
	Total         decimal.Decimal `gorm:"column:total" json:"total"`
	Vat           decimal.Decimal `gorm:"column:vat" json:"vat"`
	VoucherNumber *string         `gorm:"column:voucher_number" json:"voucher_number,omitempty"`
	BudgetHead    *string         `gorm:"column:budget_head" json:"budget_head,omitempty"`
	ColleagueID   uint            `gorm:"column:colleague_id" json:"colleague_id,omitempty"`
	ColleagueName string          `gorm:"column:colleague_name" json:"colleague_name,omitempty"`
	ColleagueNIE  string          `gorm:"column:colleague_nie" json:"colleague_nie,omitempty"`
	ServiceOffice string          `gorm:"column:service_office" json:"service_office,omitempty"`
}

// TruncationEntry records an invoice number shortened to fit the submission format.
type TruncationEntry struct {
	Section         string          `json:"section"`
	TaxCode         string          `json:"tax_code"`
	SupplierName    string          `json:"supplier_name"`
	OriginalNumber  string          `json:"original_number"`
	TruncatedNumber string          `json:"truncated_number"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Vat             decimal.Decimal `json:"vat"`
}

// QuarterRange returns the half-open UTC interval [from, to) covering the quarter.
func QuarterRange(year, quarter int) (from, to time.Time) {
	from = time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 3, 0)
}
