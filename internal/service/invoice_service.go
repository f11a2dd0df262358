package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"vatrefunder/internal/logger"
	"vatrefunder/internal/model"
	"vatrefunder/internal/repository"

	"github.com/rs/zerolog"
)

// --- DTOs ---

type RecordInvoiceRequest struct {
	Invoice InvoiceFields  `json:"invoice"`
	Voucher *VoucherFields `json:"voucher,omitempty"`
}

type RecordResult struct {
	Category      model.Category `json:"category"`
	InvoiceID     uint           `json:"invoice_id"`
	VoucherID     *uint          `json:"voucher_id,omitempty"`
	VoucherNumber string         `json:"voucher_number,omitempty"`
}

type InvoiceResponse struct {
	ID         uint   `json:"id"`
	SupplierID uint   `json:"supplier_id"`
	Number     string `json:"number"`
	Date       string `json:"date"`
	Total      string `json:"total"`
	Vat        string `json:"vat"`
	Refundable bool   `json:"refundable"`
	Status     string `json:"status"`
	VoucherID  *uint  `json:"voucher_id"`
	CreatedAt  string `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	RecordInvoice(ctx context.Context, category model.Category, fields InvoiceFields, voucher *VoucherFields) (RecordResult, error)
	ListInvoices(ctx context.Context, category model.Category, page, limit int) ([]InvoiceResponse, int64, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	voucherRepo repository.VoucherRepository
	auditRepo   repository.AuditRepository
	reference   ReferenceService
	txManager   repository.TransactionManager
	events      EventPublisher
	log         zerolog.Logger
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	voucherRepo repository.VoucherRepository,
	auditRepo repository.AuditRepository,
	reference ReferenceService,
	txManager repository.TransactionManager,
	events EventPublisher,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		voucherRepo: voucherRepo,
		auditRepo:   auditRepo,
		reference:   reference,
		txManager:   txManager,
		events:      publisherOrNoop(events),
		log:         logger.WithComponent("recorder"),
	}
}

// --- Implementation ---

// RecordInvoice validates the input, then writes the optional voucher, the
// invoice and an audit entry in one transaction.
func (s *invoiceService) RecordInvoice(ctx context.Context, category model.Category, fields InvoiceFields, voucherFields *VoucherFields) (RecordResult, error) {
	if !category.Valid() {
		return RecordResult{}, invalid("category", fmt.Sprintf("unknown category %q", category))
	}

	invoice, err := parseInvoiceCore(fields)
	if err != nil {
		return RecordResult{}, err
	}

	supplier, err := s.reference.ResolveSupplier(ctx, fields.SupplierID, fields.SupplierName)
	if err != nil {
		return RecordResult{}, err
	}
	invoice.SupplierID = supplier.ID

	var personal *model.PersonalInvoice
	if category == model.CategoryPersonal {
		if personal, err = s.resolvePersonal(ctx, fields); err != nil {
			return RecordResult{}, err
		}
	}

	var voucher *model.Voucher
	if !voucherFields.Blank() {
		if voucher, err = resolveVoucher(ctx, s.reference, *voucherFields); err != nil {
			return RecordResult{}, err
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.invoiceRepo.ExistsByNumber(txCtx, category, invoice.Number)
		if err != nil {
			return fmt.Errorf("check invoice number: %w", err)
		}
		if exists {
			return &DuplicateInvoiceError{Category: category, Number: invoice.Number}
		}

		if voucher != nil {
			if err := s.voucherRepo.Create(txCtx, voucher); err != nil {
				return fmt.Errorf("insert voucher: %w", err)
			}
			invoice.VoucherID = &voucher.ID
		}

		if personal != nil {
			personal.Invoice = invoice
			if err := s.invoiceRepo.CreatePersonal(txCtx, personal); err != nil {
				return fmt.Errorf("insert invoice: %w", err)
			}
			invoice.ID = personal.ID
		} else if err := s.invoiceRepo.Create(txCtx, category, &invoice); err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}

		details := map[string]any{
			"category":    category,
			"supplier_id": invoice.SupplierID,
			"total":       invoice.Total.StringFixed(2),
			"vat":         invoice.Vat.StringFixed(2),
			"voucher_id":  invoice.VoucherID,
		}
		if err := writeAuditLog(txCtx, s.auditRepo, model.ActionRecordInvoice, strconv.FormatUint(uint64(invoice.ID), 10), invoice.Number, details); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		err = classifyWriteError(category, invoice.Number, err)
		s.log.Warn().Err(err).Str("category", string(category)).Str("number", invoice.Number).Msg("invoice not recorded")
		return RecordResult{}, err
	}

	result := RecordResult{Category: category, InvoiceID: invoice.ID}
	if voucher != nil {
		result.VoucherID = &voucher.ID
		result.VoucherNumber = voucher.Number
	}

	s.log.Info().
		Str("category", string(category)).
		Str("number", invoice.Number).
		Uint("invoice_id", invoice.ID).
		Bool("with_voucher", voucher != nil).
		Msg("invoice recorded")
	s.events.Publish(EventInvoiceRecorded, result)

	return result, nil
}

func (s *invoiceService) resolvePersonal(ctx context.Context, fields InvoiceFields) (*model.PersonalInvoice, error) {
	colleague, err := s.reference.ResolveColleague(ctx, fields.ColleagueName)
	if err != nil {
		return nil, err
	}
	recipient, err := s.reference.ResolveRecipient(ctx, fields.RecipientName)
	if err != nil {
		return nil, err
	}
	status, err := s.reference.ResolveRefundStatus(ctx, fields.RefundStatus)
	if err != nil {
		return nil, err
	}

	personal := &model.PersonalInvoice{
		ColleagueID:    colleague.ID,
		RecipientID:    recipient.ID,
		RefundStatusID: status.ID,
	}
	if fields.DateRefunded != "" {
		refunded, err := parseDate("date_refunded", fields.DateRefunded)
		if err != nil {
			return nil, err
		}
		personal.DateRefunded = &refunded
	}
	return personal, nil
}

// resolveVoucher validates a voucher block and looks up its budget head.
func resolveVoucher(ctx context.Context, reference ReferenceService, fields VoucherFields) (*model.Voucher, error) {
	voucher, err := parseVoucherCore(fields)
	if err != nil {
		return nil, err
	}
	head, err := reference.ResolveBudgetHead(ctx, fields.BudgetHeadName)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			vErr.Field = "voucher.budget_head"
		}
		return nil, err
	}
	voucher.BudgetHeadID = head.ID
	return &voucher, nil
}

// classifyWriteError maps a failed unit of work onto the caller-facing errors.
// A unique violation at insert or commit time means a concurrent writer won.
func classifyWriteError(category model.Category, number string, err error) error {
	if errors.Is(err, ErrDuplicateInvoice) {
		return err
	}
	if repository.IsUniqueViolation(err) {
		return &DuplicateInvoiceError{Category: category, Number: number}
	}
	return persistenceError(err)
}

func (s *invoiceService) ListInvoices(ctx context.Context, category model.Category, page, limit int) ([]InvoiceResponse, int64, error) {
	if !category.Valid() {
		return nil, 0, invalid("category", fmt.Sprintf("unknown category %q", category))
	}

	invoices, total, err := s.invoiceRepo.List(ctx, category, page, limit)
	if err != nil {
		return nil, 0, persistenceError(err)
	}

	res := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		res = append(res, toInvoiceResponse(inv))
	}
	return res, total, nil
}

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:         inv.ID,
		SupplierID: inv.SupplierID,
		Number:     inv.Number,
		Date:       inv.Date.Format(dateLayout),
		Total:      inv.Total.StringFixed(2),
		Vat:        inv.Vat.StringFixed(2),
		Refundable: inv.Refundable,
		Status:     inv.Status,
		VoucherID:  inv.VoucherID,
		CreatedAt:  inv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
