package service

import (
	"context"
	"fmt"
	"strconv"

	"vatrefunder/internal/logger"
	"vatrefunder/internal/model"
	"vatrefunder/internal/repository"

	"github.com/rs/zerolog"
)

// --- DTOs ---

type VoucherResponse struct {
	ID           uint   `json:"id"`
	Number       string `json:"number"`
	BudgetHeadID uint   `json:"budget_head_id"`
	Beneficiary  string `json:"beneficiary"`
	Amount       string `json:"amount"`
	Quarter      int    `json:"quarter"`
	Year         int    `json:"year"`
}

// --- Interface ---

// VoucherService records payment vouchers that are not attached to an invoice.
type VoucherService interface {
	RecordVoucher(ctx context.Context, fields VoucherFields) (VoucherResponse, error)
	ListVouchers(ctx context.Context, page, limit int) ([]VoucherResponse, int64, error)
}

type voucherService struct {
	voucherRepo repository.VoucherRepository
	auditRepo   repository.AuditRepository
	reference   ReferenceService
	txManager   repository.TransactionManager
	events      EventPublisher
	log         zerolog.Logger
}

func NewVoucherService(
	voucherRepo repository.VoucherRepository,
	auditRepo repository.AuditRepository,
	reference ReferenceService,
	txManager repository.TransactionManager,
	events EventPublisher,
) VoucherService {
	return &voucherService{
		voucherRepo: voucherRepo,
		auditRepo:   auditRepo,
		reference:   reference,
		txManager:   txManager,
		events:      publisherOrNoop(events),
		log:         logger.WithComponent("vouchers"),
	}
}

// --- Implementation ---

// RecordVoucher validates a voucher form, pads its number to the stored width
// and writes it together with an audit entry.
func (s *voucherService) RecordVoucher(ctx context.Context, fields VoucherFields) (VoucherResponse, error) {
	if fields.Blank() {
		return VoucherResponse{}, invalid("voucher", "is required")
	}
	voucher, err := resolveVoucher(ctx, s.reference, fields)
	if err != nil {
		return VoucherResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.voucherRepo.Create(txCtx, voucher); err != nil {
			return fmt.Errorf("insert voucher: %w", err)
		}
		details := map[string]any{
			"budget_head_id": voucher.BudgetHeadID,
			"amount":         voucher.Amount.StringFixed(2),
			"quarter":        voucher.Quarter,
			"year":           voucher.Year,
		}
		if err := writeAuditLog(txCtx, s.auditRepo, model.ActionRecordVoucher, strconv.FormatUint(uint64(voucher.ID), 10), voucher.Number, details); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("number", voucher.Number).Msg("voucher not recorded")
		return VoucherResponse{}, persistenceError(err)
	}

	res := toVoucherResponse(*voucher)
	s.log.Info().Uint("voucher_id", voucher.ID).Str("number", voucher.Number).Msg("voucher recorded")
	s.events.Publish(EventVoucherRecorded, res)

	return res, nil
}

func (s *voucherService) ListVouchers(ctx context.Context, page, limit int) ([]VoucherResponse, int64, error) {
	vouchers, total, err := s.voucherRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, persistenceError(err)
	}
	res := make([]VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		res = append(res, toVoucherResponse(v))
	}
	return res, total, nil
}

func toVoucherResponse(v model.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:           v.ID,
		Number:       v.Number,
		BudgetHeadID: v.BudgetHeadID,
		Beneficiary:  v.Beneficiary,
		Amount:       v.Amount.StringFixed(2),
		Quarter:      v.Quarter,
		Year:         v.Year,
	}
}
