package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category selects which invoice table a record lives in.
type Category string

const (
	CategoryChancery  Category = "chancery"
	CategoryResidence Category = "residence"
	CategoryPersonal  Category = "personal"
)

// Categories lists every category in submission order.
var Categories = []Category{CategoryChancery, CategoryResidence, CategoryPersonal}

// ParseCategory accepts a category name in any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryChancery, CategoryResidence, CategoryPersonal:
		return true
	}
	return false
}

// Table is the legacy table backing the category.
func (c Category) Table() string {
	return "invoices_" + string(c)
}

// Label is the human readable section name used in reports and file names.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Invoice status values
const (
	StatusPending   = "Pending"
	StatusProcessed = "Processed"
	StatusArchived  = "Archived"
)

// Column widths enforced before insert.
const (
	InvoiceNumberMaxLength = 50
	NameMaxLength          = 255
	TaxCodeMaxLength       = 20
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessed, StatusArchived:
		return true
	}
	return false
}

// Invoice holds the columns shared by every category table. Rows are
// inserted once and never updated or deleted.
type Invoice struct {
	ID         uint            `gorm:"column:invoice_id;primaryKey;autoIncrement" json:"id"`
	SupplierID uint            `gorm:"column:supplier_id;not null;index" json:"supplier_id"`
	Number     string          `gorm:"column:number;type:varchar(50);not null;uniqueIndex" json:"number"`
	Date       time.Time       `gorm:"column:date;type:date;not null;index" json:"date"`
	Total      decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	Vat        decimal.Decimal `gorm:"column:vat;type:decimal(12,2);not null" json:"vat"`
	Refundable bool            `gorm:"column:refundable;not null" json:"refundable"`
	Status     string          `gorm:"column:status;type:varchar(20);not null" json:"status"`
	VoucherID  *uint           `gorm:"column:voucher_id;index" json:"voucher_id"`
	CreatedAt  time.Time       `gorm:"column:created_at" json:"created_at"`
}

type ChanceryInvoice struct {
	Invoice
}

func (ChanceryInvoice) TableName() string { return CategoryChancery.Table() }

type ResidenceInvoice struct {
	Invoice
}

func (ResidenceInvoice) TableName() string { return CategoryResidence.Table() }

// PersonalInvoice adds the claimant details personal refunds require.
type PersonalInvoice struct {
	Invoice
	ColleagueID    uint       `gorm:"column:colleague_id;not null;index" json:"colleague_id"`
	RecipientID    uint       `gorm:"column:recipient_id;not null" json:"recipient_id"`
	RefundStatusID uint       `gorm:"column:refund_status_id;not null" json:"refund_status_id"`
	DateRefunded   *time.Time `gorm:"column:date_refunded;type:date" json:"date_refunded"`
}

func (PersonalInvoice) TableName() string { return CategoryPersonal.Table() }
