package model

import "github.com/shopspring/decimal"

// VoucherNumberLength is the fixed width of a stored voucher number.
const VoucherNumberLength = 10

// Voucher is a payment voucher. It is created either alongside the invoice
// that references it or on its own, and is never updated afterwards.
type Voucher struct {
	ID           uint            `gorm:"column:voucher_id;primaryKey;autoIncrement" json:"id"`
	Number       string          `gorm:"column:voucher_number;type:varchar(10);not null;index" json:"number"`
	BudgetHeadID uint            `gorm:"column:head_of_accounts_id;not null;index" json:"budget_head_id"`
	Beneficiary  string          `gorm:"column:voucher_beneficiary;type:varchar(255);not null" json:"beneficiary"`
	Amount       decimal.Decimal `gorm:"column:voucher_euro;type:decimal(12,2);not null" json:"amount"`
	Quarter      int             `gorm:"column:voucher_quarter;not null" json:"quarter"`
	Year         int             `gorm:"column:voucher_year;not null" json:"year"`
}

func (Voucher) TableName() string { return "vouchers" }
