package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	csvDateLayout = "02-01-2006"
	pdfDateLayout = "2006-01-02"
)

// FormatMoney renders an amount with two decimals and comma thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + frac
}

// FormatPlain renders an amount with two decimals and no grouping.
func FormatPlain(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func FormatCSVDate(t time.Time) string { return t.Format(csvDateLayout) }

func FormatPDFDate(t time.Time) string { return t.Format(pdfDateLayout) }
