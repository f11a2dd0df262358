package service

import "github.com/shopspring/decimal"

var (
	vatRate          = decimal.NewFromInt(21)
	grossRateDivisor = decimal.NewFromInt(121)
)

// VatFromGrossTotal extracts the 21% VAT share contained in a VAT-inclusive total.
func VatFromGrossTotal(total decimal.Decimal) decimal.Decimal {
	return total.Mul(vatRate).Div(grossRateDivisor)
}
