package service

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"vatrefunder/internal/model"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"

	minFiscalYear = 1900
	maxFiscalYear = 2100
)

// amountLimit is the first value a decimal(12,2) column cannot hold.
var amountLimit = decimal.New(1, 10)

// InvoiceFields is the raw invoice input as entered on a form or read from a file.
// Personal invoices also need the claimant fields.
type InvoiceFields struct {
	SupplierID     uint   `json:"supplier_id"`
	SupplierName   string `json:"supplier_name"`
	Number         string `json:"number"`
	Date           string `json:"date"`
	TotalAmount    string `json:"total_amount"`
	VatAmount      string `json:"vat_amount"`
	VatInclusive21 bool   `json:"vat_inclusive_21"`
	Refundable     bool   `json:"refundable"`
	Status         string `json:"status"`

	ColleagueName string `json:"colleague_name,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
	RefundStatus  string `json:"refund_status,omitempty"`
	DateRefunded  string `json:"date_refunded,omitempty"`
}

// VoucherFields is the optional payment voucher block.
type VoucherFields struct {
	Number         string `json:"number"`
	Beneficiary    string `json:"beneficiary"`
	Amount         string `json:"amount"`
	Quarter        string `json:"quarter"`
	Year           string `json:"year"`
	BudgetHeadName string `json:"budget_head"`
}

// Blank reports whether no voucher field was filled in at all.
func (v *VoucherFields) Blank() bool {
	if v == nil {
		return true
	}
	for _, f := range []string{v.Number, v.Beneficiary, v.Amount, v.Quarter, v.Year, v.BudgetHeadName} {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseInvoiceCore validates everything that does not need a database lookup.
func parseInvoiceCore(f InvoiceFields) (model.Invoice, error) {
	number, err := requireText("number", f.Number, model.InvoiceNumberMaxLength)
	if err != nil {
		return model.Invoice{}, err
	}

	date, err := parseDate("date", f.Date)
	if err != nil {
		return model.Invoice{}, err
	}

	total, err := parseAmount("total_amount", f.TotalAmount)
	if err != nil {
		return model.Invoice{}, err
	}

	var vat decimal.Decimal
	if strings.TrimSpace(f.VatAmount) == "" && f.VatInclusive21 {
		vat = VatFromGrossTotal(total).Round(2)
	} else if vat, err = parseAmount("vat_amount", f.VatAmount); err != nil {
		return model.Invoice{}, err
	}

	status, err := parseStatus(f.Status)
	if err != nil {
		return model.Invoice{}, err
	}

	return model.Invoice{
		Number:     number,
		Date:       date,
		Total:      total,
		Vat:        vat,
		Refundable: f.Refundable,
		Status:     status,
	}, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, invalid(field, "is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, invalid(field, "must be a decimal number")
	}
	if d.IsNegative() {
		return decimal.Decimal{}, invalid(field, "must not be negative")
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, invalid(field, "must have at most two decimal places")
	}
	if d.GreaterThanOrEqual(amountLimit) {
		return decimal.Decimal{}, invalid(field, "must be less than "+amountLimit.String())
	}
	return d, nil
}

// requireText trims raw and checks it is present and fits a column of width runes.
func requireText(field, raw string, width int) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid(field, "is required")
	}
	if utf8.RuneCountInString(raw) > width {
		return "", invalid(field, "must be at most "+strconv.Itoa(width)+" characters")
	}
	return raw, nil
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalid(field, "is required")
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func parseStatus(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.StatusPending, nil
	}
	for _, s := range []string{model.StatusPending, model.StatusProcessed, model.StatusArchived} {
		if strings.EqualFold(raw, s) {
			return s, nil
		}
	}
	return "", invalid("status", "must be one of Pending, Processed, Archived")
}

func parseFlag(field, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "si", "sí":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	}
	return false, invalid(field, "must be true or false")
}

func parseBoundedInt(field, raw string, lo, hi int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid(field, "is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, invalid(field, "must be a whole number between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return n, nil
}

// padVoucherNumber left-pads a voucher number with zeros to the stored width.
func padVoucherNumber(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("voucher.number", "is required")
	}
	n := utf8.RuneCountInString(raw)
	if n > model.VoucherNumberLength {
		return "", invalid("voucher.number", "must be at most 10 characters")
	}
	return strings.Repeat("0", model.VoucherNumberLength-n) + raw, nil
}

// parseVoucherCore validates a non-blank voucher block apart from its budget head.
func parseVoucherCore(v VoucherFields) (model.Voucher, error) {
	number, err := padVoucherNumber(v.Number)
	if err != nil {
		return model.Voucher{}, err
	}
	beneficiary, err := requireText("voucher.beneficiary", v.Beneficiary, model.NameMaxLength)
	if err != nil {
		return model.Voucher{}, err
	}
	amount, err := parseAmount("voucher.amount", v.Amount)
	if err != nil {
		return model.Voucher{}, err
	}
	quarter, err := parseBoundedInt("voucher.quarter", v.Quarter, 1, 4)
	if err != nil {
		return model.Voucher{}, err
	}
	year, err := parseBoundedInt("voucher.year", v.Year, minFiscalYear, maxFiscalYear)
	if err != nil {
		return model.Voucher{}, err
	}
	if strings.TrimSpace(v.BudgetHeadName) == "" {
		return model.Voucher{}, invalid("voucher.budget_head", "is required")
	}

	return model.Voucher{
		Number:      number,
		Beneficiary: beneficiary,
		Amount:      amount,
		Quarter:     quarter,
		Year:        year,
	}, nil
}
