package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"vatrefunder/internal/logger"
	"vatrefunder/internal/model"
	"vatrefunder/internal/report"
	"vatrefunder/internal/repository"

	"github.com/rs/zerolog"
)

// Export scopes
const (
	ScopeOfficial  = "official"
	ScopeChancery  = "chancery"
	ScopeResidence = "residence"
	ScopePersonal  = "personal"
	ScopeVouchers  = "vouchers"
)

// Export formats
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

const fileTimestampLayout = "20060102_150405"

// --- DTOs ---

type ExportRequest struct {
	Scope       string `json:"scope" binding:"required"`
	Quarter     int    `json:"quarter" binding:"required"`
	FiscalYear  int    `json:"fiscal_year" binding:"required"`
	Format      string `json:"format" binding:"required"`
	ColleagueID *uint  `json:"colleague_id,omitempty"`
}

type SectionSummary struct {
	Name          string `json:"name"`
	Rows          int    `json:"rows"`
	SubtotalTotal string `json:"subtotal_total"`
	SubtotalVAT   string `json:"subtotal_vat"`
}

type ExportResult struct {
	Files         []string                `json:"files"`
	AuditFile     string                  `json:"audit_file,omitempty"`
	Truncations   []model.TruncationEntry `json:"truncations"`
	Sections      []SectionSummary        `json:"sections"`
	GrandTotal    string                  `json:"grand_total"`
	GrandTotalVAT string                  `json:"grand_total_vat"`
}

// --- Interface ---

type ExportService interface {
	BuildExport(ctx context.Context, req ExportRequest) (ExportResult, error)
	OutputDirectory() string
}

type exportService struct {
	exportRepo repository.ExportRepository
	auditRepo  repository.AuditRepository
	reference  ReferenceService
	outputDir  string
	events     EventPublisher
	now        func() time.Time
	log        zerolog.Logger
}

func NewExportService(
	exportRepo repository.ExportRepository,
	auditRepo repository.AuditRepository,
	reference ReferenceService,
	outputDir string,
	events EventPublisher,
) ExportService {
	return &exportService{
		exportRepo: exportRepo,
		auditRepo:  auditRepo,
		reference:  reference,
		outputDir:  outputDir,
		events:     publisherOrNoop(events),
		now:        time.Now,
		log:        logger.WithComponent("export"),
	}
}

// --- Implementation ---

// scopePlan describes what a scope selects and how it is rendered.
type scopePlan struct {
	prefix     string
	title      string
	layout     report.Layout
	categories []model.Category
}

func planFor(scope string) (scopePlan, bool) {
	switch scope {
	case ScopeOfficial:
		return scopePlan{"VAT", "Relación de Facturas - Devolución de IVA", report.LayoutSubmission,
			[]model.Category{model.CategoryChancery, model.CategoryResidence}}, true
	case ScopeChancery:
		return scopePlan{"VAT", "Relación de Facturas - Chancery", report.LayoutSubmission,
			[]model.Category{model.CategoryChancery}}, true
	case ScopeResidence:
		return scopePlan{"VAT", "Relación de Facturas - Residence", report.LayoutSubmission,
			[]model.Category{model.CategoryResidence}}, true
	case ScopePersonal:
		return scopePlan{"RelFactColleague", "Relación de Facturas - Solicitud Personal", report.LayoutColleague,
			[]model.Category{model.CategoryPersonal}}, true
	case ScopeVouchers:
		return scopePlan{"VatVouchers", "Facturas y Vouchers", report.LayoutVouchers,
			[]model.Category{model.CategoryChancery, model.CategoryResidence}}, true
	}
	return scopePlan{}, false
}

// BuildExport selects the refundable invoices of the quarter, groups them into
// sections and writes the requested artifacts. Nothing is written when no
// section has rows.
func (s *exportService) BuildExport(ctx context.Context, req ExportRequest) (ExportResult, error) {
	scope := strings.ToLower(strings.TrimSpace(req.Scope))
	plan, ok := planFor(scope)
	if !ok {
		return ExportResult{}, invalid("scope", fmt.Sprintf("unknown scope %q", req.Scope))
	}
	if req.Quarter < 1 || req.Quarter > 4 {
		return ExportResult{}, invalid("quarter", "must be between 1 and 4")
	}
	if req.FiscalYear < minFiscalYear || req.FiscalYear > maxFiscalYear {
		return ExportResult{}, invalid("fiscal_year", "must be between 1900 and 2100")
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != FormatPDF && format != FormatCSV {
		return ExportResult{}, invalid("format", "must be pdf or csv")
	}
	if req.ColleagueID != nil {
		if scope != ScopePersonal {
			return ExportResult{}, invalid("colleague_id", "only applies to the personal scope")
		}
		if _, err := s.reference.ResolveColleagueID(ctx, *req.ColleagueID); err != nil {
			return ExportResult{}, err
		}
	}

	sections, err := s.collectSections(ctx, plan, req)
	if err != nil {
		return ExportResult{}, err
	}
	if len(sections) == 0 {
		return ExportResult{}, ErrNoData
	}

	now := s.now()
	doc := report.NewDocument(plan.title, plan.layout, req.Quarter, req.FiscalYear, sections, now)

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("create output directory: %w", err)
	}
	base := filepath.Join(s.outputDir, fmt.Sprintf("%s_Q%d_%d_%s", plan.prefix, req.Quarter, req.FiscalYear, now.Format(fileTimestampLayout)))

	result := ExportResult{Truncations: []model.TruncationEntry{}}
	if format == FormatPDF {
		path := base + ".pdf"
		if err := writeFile(path, func(w io.Writer) error { return report.WritePDF(w, doc) }); err != nil {
			return ExportResult{}, err
		}
		result.Files = append(result.Files, path)
	} else if err := s.writeCSV(base, plan, doc, &result); err != nil {
		return ExportResult{}, err
	}

	for _, sec := range doc.Sections {
		result.Sections = append(result.Sections, SectionSummary{
			Name:          sec.Name,
			Rows:          len(sec.Rows),
			SubtotalTotal: sec.SubtotalTotal.StringFixed(2),
			SubtotalVAT:   sec.SubtotalVAT.StringFixed(2),
		})
	}
	result.GrandTotal = doc.GrandTotal.StringFixed(2)
	result.GrandTotalVAT = doc.GrandTotalVAT.StringFixed(2)

	details := map[string]any{
		"scope":           scope,
		"format":          format,
		"quarter":         req.Quarter,
		"fiscal_year":     req.FiscalYear,
		"files":           result.Files,
		"truncations":     len(result.Truncations),
		"grand_total_vat": result.GrandTotalVAT,
	}
	if err := writeAuditLog(ctx, s.auditRepo, model.ActionBuildExport, scope, filepath.Base(base), details); err != nil {
		s.log.Warn().Err(err).Msg("failed to write audit log")
	}

	s.log.Info().
		Str("scope", scope).
		Str("format", format).
		Int("quarter", req.Quarter).
		Int("fiscal_year", req.FiscalYear).
		Strs("files", result.Files).
		Int("truncations", len(result.Truncations)).
		Msg("export built")
	s.events.Publish(EventExportBuilt, result)

	return result, nil
}

func (s *exportService) OutputDirectory() string { return s.outputDir }

func (s *exportService) collectSections(ctx context.Context, plan scopePlan, req ExportRequest) ([]report.Section, error) {
	from, to := model.QuarterRange(req.FiscalYear, req.Quarter)

	var sections []report.Section
	for _, category := range plan.categories {
		rows, err := s.exportRepo.FetchRecords(ctx, repository.ExportQuery{
			Category:     category,
			From:         from,
			To:           to,
			WithVouchers: plan.layout == report.LayoutVouchers,
			ColleagueID:  req.ColleagueID,
		})
		if err != nil {
			return nil, persistenceError(err)
		}
		if len(rows) == 0 {
			continue
		}

		if category == model.CategoryPersonal {
			sections = append(sections, colleagueSections(rows)...)
			continue
		}
		sections = append(sections, report.NewSection(category.Label(), rows))
	}
	return sections, nil
}

// colleagueSections splits rows, already grouped by colleague, into one section each.
func colleagueSections(rows []model.ExportRecord) []report.Section {
	var sections []report.Section
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i < len(rows) && rows[i].ColleagueID == rows[start].ColleagueID {
			continue
		}
		first := rows[start]
		sec := report.NewSection(first.ColleagueName, rows[start:i])
		sec.Key = fmt.Sprintf("%d_%s", first.ColleagueID, first.ColleagueName)
		sec.Applicant = &report.Applicant{
			Name:          first.ColleagueName,
			NIE:           first.ColleagueNIE,
			ServiceOffice: first.ServiceOffice,
		}
		sections = append(sections, sec)
		start = i
	}
	return sections
}

// writeCSV writes one file per section plus the truncation log. Either every
// file is left on disk or none is.
func (s *exportService) writeCSV(base string, plan scopePlan, doc report.Document, result *ExportResult) (err error) {
	var written []string
	defer func() {
		if err != nil {
			for _, path := range written {
				os.Remove(path)
			}
			result.Files = nil
			result.AuditFile = ""
		}
	}()

	used := make(map[string]int, len(doc.Sections))
	for _, sec := range doc.Sections {
		path := base + "_" + sectionFileStem(sec, used) + ".csv"
		err := writeFile(path, func(w io.Writer) error {
			if plan.layout == report.LayoutVouchers {
				return report.WriteVoucherCSV(w, sec)
			}
			truncated, err := report.WriteSubmissionCSV(w, sec)
			result.Truncations = append(result.Truncations, truncated...)
			return err
		})
		if err != nil {
			return err
		}
		written = append(written, path)
		result.Files = append(result.Files, path)
	}

	if len(result.Truncations) > 0 {
		path := base + "_truncated_log.csv"
		if err := writeFile(path, func(w io.Writer) error { return report.WriteTruncationLog(w, result.Truncations) }); err != nil {
			return err
		}
		written = append(written, path)
		result.AuditFile = path
	}
	return nil
}

// sectionFileStem derives a file name part for sec that no earlier section of
// the same export has used.
func sectionFileStem(sec report.Section, used map[string]int) string {
	key := sec.Key
	if key == "" {
		key = sec.Name
	}
	stem := fileSafe(key)
	if stem == "" {
		stem = "section"
	}
	used[stem]++
	if n := used[stem]; n > 1 {
		stem = fmt.Sprintf("%s_%d", stem, n)
	}
	return stem
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func fileSafe(name string) string {
	return strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "_")
}

// writeFile creates path and removes it again if render fails.
func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
