package report

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"vatrefunder/internal/model"
)

// MaxInvoiceNumberLength is the widest invoice number the submission format accepts.
const MaxInvoiceNumberLength = 12

var (
	truncationLogHeader = []string{
		"section", "NIF", "Proveedor", "Numero_Factura_Original", "Numero_Factura_Truncada",
		"Fecha_Devengo", "Importe", "Cuota", "",
	}
	voucherReportHeader = []string{
		"Proveedor", "Numero_Factura", "Fecha_Devengo", "Importe_Total_Impuestos_Incluidos",
		"Cuotas_IVA", "Voucher_Number", "Head_of_Accounts",
	}
)

// TruncateInvoiceNumber keeps the first MaxInvoiceNumberLength characters.
func TruncateInvoiceNumber(number string) (string, bool) {
	if utf8.RuneCountInString(number) <= MaxInvoiceNumberLength {
		return number, false
	}
	return string([]rune(number)[:MaxInvoiceNumberLength]), true
}

// lineWriter writes fields joined by ';' exactly as given. Submission files are
// fixed field lists and must not gain CSV quoting.
type lineWriter struct {
	bw *bufio.Writer
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{bw: bufio.NewWriter(w)}
}

func (lw *lineWriter) Write(fields []string) error {
	if _, err := lw.bw.WriteString(strings.Join(fields, ";")); err != nil {
		return err
	}
	return lw.bw.WriteByte('\n')
}

func (lw *lineWriter) Flush() error { return lw.bw.Flush() }

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return cw
}

// WriteSubmissionCSV writes the headerless submission lines
// NIF;Importe_Total;Numero_Factura;Cuota_IVA;Fecha_Devengo; for one section and
// returns an entry for every invoice number it had to shorten.
func WriteSubmissionCSV(w io.Writer, section Section) ([]model.TruncationEntry, error) {
	lw := newLineWriter(w)
	var truncated []model.TruncationEntry

	for _, r := range section.Rows {
		number, cut := TruncateInvoiceNumber(r.Number)
		if cut {
			truncated = append(truncated, model.TruncationEntry{
				Section:         section.Name,
				TaxCode:         r.TaxCode,
				SupplierName:    r.SupplierName,
				OriginalNumber:  r.Number,
				TruncatedNumber: number,
				Date:            r.Date,
				Amount:          r.Total,
				Vat:             r.Vat,
			})
		}
		// the trailing empty field yields the trailing separator the format requires
		record := []string{r.TaxCode, FormatPlain(r.Total), number, FormatPlain(r.Vat), FormatCSVDate(r.Date), ""}
		if err := lw.Write(record); err != nil {
			return nil, err
		}
	}

	return truncated, lw.Flush()
}

// WriteTruncationLog writes the companion audit file listing shortened numbers.
func WriteTruncationLog(w io.Writer, entries []model.TruncationEntry) error {
	lw := newLineWriter(w)
	if err := lw.Write(truncationLogHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.Section, e.TaxCode, e.SupplierName, e.OriginalNumber, e.TruncatedNumber,
			FormatCSVDate(e.Date), FormatPlain(e.Amount), FormatPlain(e.Vat), "",
		}
		if err := lw.Write(record); err != nil {
			return err
		}
	}
	return lw.Flush()
}

// WriteVoucherCSV writes the voucher report of one section with a header row.
// Invoice numbers are written in full and quoted where needed.
func WriteVoucherCSV(w io.Writer, section Section) error {
	cw := newWriter(w)
	if err := cw.Write(voucherReportHeader); err != nil {
		return err
	}
	for _, r := range section.Rows {
		record := []string{
			r.SupplierName, r.Number, FormatCSVDate(r.Date), FormatPlain(r.Total), FormatPlain(r.Vat),
			deref(r.VoucherNumber), deref(r.BudgetHead),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
