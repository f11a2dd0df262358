// Package report renders VAT refund submissions as PDF and CSV files.
package report

import (
	"time"

	"vatrefunder/internal/model"

	"github.com/shopspring/decimal"
)

// Layout selects the column set of a document.
type Layout int

const (
	// LayoutSubmission is the official relation of invoices.
	LayoutSubmission Layout = iota
	// LayoutVouchers adds the voucher number and budget head of each invoice.
	LayoutVouchers
	// LayoutColleague is a per-applicant relation with an applicant header.
	LayoutColleague
)

// Applicant identifies the colleague a personal section belongs to.
type Applicant struct {
	Name          string
	NIE           string
	ServiceOffice string
}

// Section is one labelled group of rows with its subtotals.
type Section struct {
	Name          string
	Key           string // output file stem, Name when empty
	Applicant     *Applicant
	Rows          []model.ExportRecord
	SubtotalTotal decimal.Decimal
	SubtotalVAT   decimal.Decimal
}

// NewSection sums the rows of a section.
func NewSection(name string, rows []model.ExportRecord) Section {
	s := Section{Name: name, Rows: rows, SubtotalTotal: decimal.Zero, SubtotalVAT: decimal.Zero}
	for _, r := range rows {
		s.SubtotalTotal = s.SubtotalTotal.Add(r.Total)
		s.SubtotalVAT = s.SubtotalVAT.Add(r.Vat)
	}
	return s
}

// Document is everything a rendered export contains.
type Document struct {
	Title         string
	Layout        Layout
	Quarter       int
	FiscalYear    int
	Sections      []Section
	GrandTotal    decimal.Decimal
	GrandTotalVAT decimal.Decimal
	GeneratedAt   time.Time
}

// NewDocument totals the given sections.
func NewDocument(title string, layout Layout, quarter, year int, sections []Section, generatedAt time.Time) Document {
	d := Document{
		Title:         title,
		Layout:        layout,
		Quarter:       quarter,
		FiscalYear:    year,
		Sections:      sections,
		GrandTotal:    decimal.Zero,
		GrandTotalVAT: decimal.Zero,
		GeneratedAt:   generatedAt,
	}
	for _, s := range sections {
		d.GrandTotal = d.GrandTotal.Add(s.SubtotalTotal)
		d.GrandTotalVAT = d.GrandTotalVAT.Add(s.SubtotalVAT)
	}
	return d
}
