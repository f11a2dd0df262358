package report

import (
	"fmt"
	"io"
	"strconv"

	"vatrefunder/internal/model"

	"github.com/go-pdf/fpdf"
)

const (
	marginLeft   = 15.0
	marginTop    = 12.0
	marginRight  = 15.0
	marginBottom = 18.0

	rowHeight    = 6.0
	headerHeight = 7.0
	cellPadding  = 1.0

	fontFamily = "Helvetica"
)

type column struct {
	title string
	width float64
	align string
	value func(serial int, r model.ExportRecord) string
}

var (
	serialColumn   = column{"Nº", 10, "R", func(i int, _ model.ExportRecord) string { return strconv.Itoa(i) }}
	taxCodeColumn  = column{"NIF", 25, "L", func(_ int, r model.ExportRecord) string { return r.TaxCode }}
	numberColumn   = column{"Nº Factura", 30, "L", func(_ int, r model.ExportRecord) string { return r.Number }}
	dateColumn     = column{"Fecha", 21, "C", func(_ int, r model.ExportRecord) string { return FormatPDFDate(r.Date) }}
	totalColumn    = column{"Importe", 22, "R", func(_ int, r model.ExportRecord) string { return FormatMoney(r.Total) }}
	vatColumn      = column{"Cuota IVA", 22, "R", func(_ int, r model.ExportRecord) string { return FormatMoney(r.Vat) }}
	supplierColumn = column{"Proveedor", 50, "L", func(_ int, r model.ExportRecord) string { return r.SupplierName }}
)

func withWidth(c column, width float64) column {
	c.width = width
	return c
}

// pageSetup returns the orientation and columns of a layout. Column widths fill the printable width.
func pageSetup(layout Layout) (string, []column) {
	if layout == LayoutVouchers {
		return "L", []column{
			serialColumn,
			withWidth(supplierColumn, 62),
			withWidth(numberColumn, 35),
			withWidth(dateColumn, 22),
			withWidth(totalColumn, 26),
			withWidth(vatColumn, 24),
			{"Voucher", 28, "L", func(_ int, r model.ExportRecord) string { return deref(r.VoucherNumber) }},
			{"Head of Accounts", 60, "L", func(_ int, r model.ExportRecord) string { return deref(r.BudgetHead) }},
		}
	}
	return "P", []column{serialColumn, taxCodeColumn, supplierColumn, numberColumn, dateColumn, totalColumn, vatColumn}
}

type pdfWriter struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	doc   Document
	cols  []column
	width float64
}

// WritePDF renders doc as a single PDF. Each section is labelled and closed by
// its VAT subtotal, and the document ends with the grand total.
func WritePDF(w io.Writer, doc Document) error {
	orientation, cols := pageSetup(doc.Layout)
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pw := &pdfWriter{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		doc:  doc,
		cols: cols,
	}
	for _, c := range cols {
		pw.width += c.width
	}

	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AliasNbPages("")
	pdf.SetHeaderFunc(pw.header)
	pdf.SetFooterFunc(pw.footer)

	starts := serialStarts(doc)
	for i, section := range doc.Sections {
		if i == 0 || doc.Layout == LayoutColleague {
			pdf.AddPage()
		} else {
			pdf.Ln(4)
		}
		pw.section(section, starts[i])
	}
	pw.grandTotal()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (pw *pdfWriter) header() {
	pdf := pw.pdf
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 7, pw.tr(pw.doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	subtitle := fmt.Sprintf("Trimestre %d / Ejercicio %d", pw.doc.Quarter, pw.doc.FiscalYear)
	pdf.CellFormat(0, 5, pw.tr(subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(3)
}

func (pw *pdfWriter) footer() {
	pdf := pw.pdf
	pdf.SetY(-12)
	pdf.SetFont(fontFamily, "I", 8)
	pdf.CellFormat(0, 5, "Generated on "+pw.doc.GeneratedAt.Format("2006-01-02 15:04:05"), "", 0, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
}

// serialStarts gives the row number each section starts counting from. Numbering
// runs on across sections, except that every colleague claim starts again at 1.
func serialStarts(doc Document) []int {
	starts := make([]int, len(doc.Sections))
	next := 1
	for i, s := range doc.Sections {
		if doc.Layout == LayoutColleague {
			next = 1
		}
		starts[i] = next
		next += len(s.Rows)
	}
	return starts
}

func (pw *pdfWriter) section(s Section, first int) {
	pdf := pw.pdf
	if s.Applicant != nil {
		pw.applicant(*s.Applicant)
	}

	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(pw.width, headerHeight, pw.tr(s.Name), "", 1, "L", false, 0, "")
	pw.tableHeader()

	_, pageHeight := pdf.GetPageSize()
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetFillColor(242, 242, 242)
	for i, r := range s.Rows {
		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			pw.tableHeader()
			pdf.SetFont(fontFamily, "", 8)
			pdf.SetFillColor(242, 242, 242)
		}
		for _, c := range pw.cols {
			text := pw.fit(pw.tr(c.value(first+i, r)), c.width)
			pdf.CellFormat(c.width, rowHeight, text, "1", 0, c.align, i%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(fontFamily, "B", 8)
	label := fmt.Sprintf("Subtotal %s: Importe %s   Cuota IVA %s", s.Name, FormatMoney(s.SubtotalTotal), FormatMoney(s.SubtotalVAT))
	pdf.CellFormat(pw.width, rowHeight, pw.tr(label), "1", 1, "R", false, 0, "")
}

func (pw *pdfWriter) applicant(a Applicant) {
	pdf := pw.pdf
	lines := [][2]string{
		{"Solicitante", a.Name},
		{"NIF", a.NIE},
		{"Servicio u Oficina", a.ServiceOffice},
		{"Ejercicio", strconv.Itoa(pw.doc.FiscalYear)},
		{"Trimestre", strconv.Itoa(pw.doc.Quarter)},
	}
	for _, l := range lines {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.CellFormat(40, 5, pw.tr(l[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 9)
		pdf.CellFormat(pw.width-40, 5, pw.tr(l[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (pw *pdfWriter) tableHeader() {
	pdf := pw.pdf
	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetFillColor(210, 220, 235)
	for _, c := range pw.cols {
		pdf.CellFormat(c.width, headerHeight, pw.tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func (pw *pdfWriter) grandTotal() {
	pdf := pw.pdf
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "B", 10)
	label := fmt.Sprintf("Total: Importe %s   Cuota IVA %s", FormatMoney(pw.doc.GrandTotal), FormatMoney(pw.doc.GrandTotalVAT))
	pdf.CellFormat(pw.width, headerHeight, pw.tr(label), "T", 1, "R", false, 0, "")
}

// fit shortens an already translated single-byte string to the cell width.
func (pw *pdfWriter) fit(s string, width float64) string {
	limit := width - 2*cellPadding
	if pw.pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pw.pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}
