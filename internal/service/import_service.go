package service

import (
	"context"
	"fmt"

	"vatrefunder/internal/batch"
	"vatrefunder/internal/logger"
	"vatrefunder/internal/model"
	"vatrefunder/internal/repository"

	"github.com/rs/zerolog"
)

// Batch file columns
const (
	ColSupplierName  = "Supplier_Name"
	ColInvoiceNumber = "Invoice_Number"
	ColInvoiceDate   = "Invoice_Date"
	ColInvoiceAmount = "Invoice_Amount"
	ColInvoiceVAT    = "Invoice_VAT"
	ColRefundable    = "Refundable"
	ColStatus        = "Status"
)

var requiredImportColumns = []string{
	ColSupplierName, ColInvoiceNumber, ColInvoiceDate, ColInvoiceAmount, ColInvoiceVAT, ColRefundable,
}

// --- DTOs ---

type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Category          model.Category `json:"category"`
	Source            string         `json:"source,omitempty"`
	Inserted          int            `json:"inserted"`
	SkippedDuplicates []string       `json:"skipped_duplicates"`
	RowErrors         []RowError     `json:"row_errors"`
}

// --- Interface ---

type ImportService interface {
	ImportBatch(ctx context.Context, category model.Category, b *batch.Batch) (ImportResult, error)
}

type importService struct {
	invoiceRepo repository.InvoiceRepository
	auditRepo   repository.AuditRepository
	reference   ReferenceService
	events      EventPublisher
	log         zerolog.Logger
}

func NewImportService(
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	reference ReferenceService,
	events EventPublisher,
) ImportService {
	return &importService{
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		reference:   reference,
		events:      publisherOrNoop(events),
		log:         logger.WithComponent("importer"),
	}
}

// --- Implementation ---

type importCandidate struct {
	line    int
	invoice model.Invoice
}

// ImportBatch validates each row on its own, drops numbers that already exist
// (in the store or earlier in the file) and inserts the rest with one statement.
func (s *importService) ImportBatch(ctx context.Context, category model.Category, b *batch.Batch) (ImportResult, error) {
	switch category {
	case model.CategoryChancery, model.CategoryResidence:
	case model.CategoryPersonal:
		return ImportResult{}, invalid("category", "batch import supports chancery and residence invoices only")
	default:
		return ImportResult{}, invalid("category", fmt.Sprintf("unknown category %q", category))
	}
	if b == nil {
		return ImportResult{}, &SchemaError{Missing: requiredImportColumns}
	}

	cols, err := importColumns(b)
	if err != nil {
		return ImportResult{}, err
	}

	suppliers, err := s.reference.ListSuppliers(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	supplierIDs := make(map[string]uint, len(suppliers))
	for _, sp := range suppliers {
		supplierIDs[sp.Name] = sp.ID
	}

	result := ImportResult{
		Category:          category,
		Source:            b.Source,
		SkippedDuplicates: []string{},
		RowErrors:         []RowError{},
	}

	candidates := make([]importCandidate, 0, len(b.Rows))
	seen := make(map[string]struct{}, len(b.Rows))
	for _, row := range b.Rows {
		inv, err := parseImportRow(b, row, cols, supplierIDs)
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Line: row.Line, Reason: err.Error()})
			continue
		}
		if _, dup := seen[inv.Number]; dup {
			result.SkippedDuplicates = append(result.SkippedDuplicates, inv.Number)
			continue
		}
		seen[inv.Number] = struct{}{}
		candidates = append(candidates, importCandidate{line: row.Line, invoice: inv})
	}

	numbers := make([]string, 0, len(candidates))
	for _, c := range candidates {
		numbers = append(numbers, c.invoice.Number)
	}
	existing, err := s.invoiceRepo.FindExistingNumbers(ctx, category, numbers)
	if err != nil {
		return ImportResult{}, persistenceError(err)
	}

	survivors := make([]model.Invoice, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := existing[c.invoice.Number]; ok {
			result.SkippedDuplicates = append(result.SkippedDuplicates, c.invoice.Number)
			continue
		}
		survivors = append(survivors, c.invoice)
	}

	if err := s.invoiceRepo.CreateBatch(ctx, category, survivors); err != nil {
		if repository.IsUniqueViolation(err) {
			return ImportResult{}, &DuplicateInvoiceError{Category: category}
		}
		return ImportResult{}, persistenceError(err)
	}
	result.Inserted = len(survivors)

	details := map[string]any{
		"source":             b.Source,
		"inserted":           result.Inserted,
		"skipped_duplicates": len(result.SkippedDuplicates),
		"row_errors":         len(result.RowErrors),
	}
	if err := writeAuditLog(ctx, s.auditRepo, model.ActionImportBatch, string(category), b.Source, details); err != nil {
		s.log.Warn().Err(err).Msg("failed to write audit log")
	}

	s.log.Info().
		Str("category", string(category)).
		Str("source", b.Source).
		Int("inserted", result.Inserted).
		Int("skipped", len(result.SkippedDuplicates)).
		Int("row_errors", len(result.RowErrors)).
		Msg("batch imported")
	s.events.Publish(EventBatchImported, result)

	return result, nil
}

type importColumnIndex struct {
	supplier, number, date, amount, vat, refundable, status int
}

func importColumns(b *batch.Batch) (importColumnIndex, error) {
	var missing []string
	col := func(name string) int {
		i := b.Column(name)
		if i < 0 {
			missing = append(missing, name)
		}
		return i
	}

	idx := importColumnIndex{
		supplier:   col(ColSupplierName),
		number:     col(ColInvoiceNumber),
		date:       col(ColInvoiceDate),
		amount:     col(ColInvoiceAmount),
		vat:        col(ColInvoiceVAT),
		refundable: col(ColRefundable),
		status:     b.Column(ColStatus),
	}
	if len(missing) > 0 {
		return importColumnIndex{}, &SchemaError{Missing: missing}
	}
	return idx, nil
}

func parseImportRow(b *batch.Batch, row batch.Row, cols importColumnIndex, supplierIDs map[string]uint) (model.Invoice, error) {
	refundable, err := parseFlag(ColRefundable, row.Value(cols.refundable))
	if err != nil {
		return model.Invoice{}, err
	}

	date := row.Value(cols.date)
	if t, ok := b.ParseDate(date); ok {
		date = t.Format(dateLayout)
	}

	inv, err := parseInvoiceCore(InvoiceFields{
		Number:      row.Value(cols.number),
		Date:        date,
		TotalAmount: row.Value(cols.amount),
		VatAmount:   row.Value(cols.vat),
		Refundable:  refundable,
		Status:      row.Value(cols.status),
	})
	if err != nil {
		return model.Invoice{}, err
	}

	name := row.Value(cols.supplier)
	if name == "" {
		return model.Invoice{}, invalid(ColSupplierName, "is required")
	}
	id, ok := supplierIDs[name]
	if !ok {
		return model.Invoice{}, invalid(ColSupplierName, fmt.Sprintf("unknown supplier %q", name))
	}
	inv.SupplierID = id
	return inv, nil
}
