package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vatrefunder/internal/logger"
	"vatrefunder/internal/model"
	"vatrefunder/internal/repository"

	"github.com/rs/zerolog"
)

// --- DTOs ---

type CreateSupplierRequest struct {
	TaxCode string `json:"tax_code" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

// Lookups bundles every list a recording form needs. A list that could not
// be loaded is empty and explained in Warnings.
type Lookups struct {
	Suppliers      []model.Supplier     `json:"suppliers"`
	BudgetHeads    []model.BudgetHead   `json:"budget_heads"`
	Colleagues     []model.Colleague    `json:"colleagues"`
	Recipients     []model.Recipient    `json:"recipients"`
	RefundStatuses []model.RefundStatus `json:"refund_statuses"`
	Warnings       []string             `json:"warnings,omitempty"`
}

// --- Interface ---

type ReferenceService interface {
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	ListBudgetHeads(ctx context.Context) (map[string]uint, error)
	ListColleagues(ctx context.Context) ([]model.Colleague, error)
	ListRecipients(ctx context.Context) ([]model.Recipient, error)
	ListRefundStatuses(ctx context.Context) ([]model.RefundStatus, error)
	Lookups(ctx context.Context) Lookups
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (model.Supplier, error)

	ResolveSupplier(ctx context.Context, id uint, name string) (*model.Supplier, error)
	ResolveBudgetHead(ctx context.Context, name string) (*model.BudgetHead, error)
	ResolveColleague(ctx context.Context, name string) (*model.Colleague, error)
	ResolveColleagueID(ctx context.Context, id uint) (*model.Colleague, error)
	ResolveRecipient(ctx context.Context, name string) (*model.Recipient, error)
	ResolveRefundStatus(ctx context.Context, statusType string) (*model.RefundStatus, error)
}

type referenceService struct {
	repo      repository.ReferenceRepository
	auditRepo repository.AuditRepository
	events    EventPublisher
	log       zerolog.Logger
}

func NewReferenceService(repo repository.ReferenceRepository, auditRepo repository.AuditRepository, events EventPublisher) ReferenceService {
	return &referenceService{
		repo:      repo,
		auditRepo: auditRepo,
		events:    publisherOrNoop(events),
		log:       logger.WithComponent("reference"),
	}
}

// --- Implementation ---

func (s *referenceService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, unavailable("suppliers", err)
	}
	return suppliers, nil
}

func (s *referenceService) ListBudgetHeads(ctx context.Context) (map[string]uint, error) {
	heads, err := s.repo.ListBudgetHeads(ctx)
	if err != nil {
		return nil, unavailable("budget heads", err)
	}
	byName := make(map[string]uint, len(heads))
	for _, h := range heads {
		byName[h.Name] = h.ID
	}
	return byName, nil
}

func (s *referenceService) ListColleagues(ctx context.Context) ([]model.Colleague, error) {
	colleagues, err := s.repo.ListColleagues(ctx)
	if err != nil {
		return nil, unavailable("colleagues", err)
	}
	return colleagues, nil
}

func (s *referenceService) ListRecipients(ctx context.Context) ([]model.Recipient, error) {
	recipients, err := s.repo.ListRecipients(ctx)
	if err != nil {
		return nil, unavailable("recipients", err)
	}
	return recipients, nil
}

func (s *referenceService) ListRefundStatuses(ctx context.Context) ([]model.RefundStatus, error) {
	statuses, err := s.repo.ListRefundStatuses(ctx)
	if err != nil {
		return nil, unavailable("refund statuses", err)
	}
	return statuses, nil
}

func (s *referenceService) Lookups(ctx context.Context) Lookups {
	res := Lookups{
		Suppliers:      []model.Supplier{},
		BudgetHeads:    []model.BudgetHead{},
		Colleagues:     []model.Colleague{},
		Recipients:     []model.Recipient{},
		RefundStatuses: []model.RefundStatus{},
	}
	degrade := func(what string, err error) {
		s.log.Warn().Err(err).Str("list", what).Msg("reference data unavailable, continuing with an empty list")
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s could not be loaded", what))
	}

	if v, err := s.repo.ListSuppliers(ctx); err != nil {
		degrade("suppliers", err)
	} else {
		res.Suppliers = v
	}
	if v, err := s.repo.ListBudgetHeads(ctx); err != nil {
		degrade("budget heads", err)
	} else {
		res.BudgetHeads = v
	}
	if v, err := s.repo.ListColleagues(ctx); err != nil {
		degrade("colleagues", err)
	} else {
		res.Colleagues = v
	}
	if v, err := s.repo.ListRecipients(ctx); err != nil {
		degrade("recipients", err)
	} else {
		res.Recipients = v
	}
	if v, err := s.repo.ListRefundStatuses(ctx); err != nil {
		degrade("refund statuses", err)
	} else {
		res.RefundStatuses = v
	}
	return res
}

func (s *referenceService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (model.Supplier, error) {
	taxCode, err := requireText("tax_code", req.TaxCode, model.TaxCodeMaxLength)
	if err != nil {
		return model.Supplier{}, err
	}
	taxCode = strings.ToUpper(taxCode)
	name, err := requireText("name", req.Name, model.NameMaxLength)
	if err != nil {
		return model.Supplier{}, err
	}

	if _, err := s.repo.FindSupplierByName(ctx, name); err == nil {
		return model.Supplier{}, invalid("name", fmt.Sprintf("supplier %q already exists", name))
	} else if !repository.IsNotFound(err) {
		return model.Supplier{}, unavailable("suppliers", err)
	}

	supplier := model.Supplier{TaxCode: taxCode, Name: name}
	if err := s.repo.CreateSupplier(ctx, &supplier); err != nil {
		if repository.IsUniqueViolation(err) {
			return model.Supplier{}, invalid("name", fmt.Sprintf("supplier %q already exists", name))
		}
		return model.Supplier{}, persistenceError(err)
	}

	if err := writeAuditLog(ctx, s.auditRepo, model.ActionCreateSupplier, strconv.FormatUint(uint64(supplier.ID), 10), supplier.Name, supplier); err != nil {
		s.log.Warn().Err(err).Msg("failed to write audit log")
	}
	s.events.Publish(EventSupplierCreated, supplier)
	s.log.Info().Uint("supplier_id", supplier.ID).Str("tax_code", supplier.TaxCode).Msg("supplier created")

	return supplier, nil
}

func (s *referenceService) ResolveSupplier(ctx context.Context, id uint, name string) (*model.Supplier, error) {
	name = strings.TrimSpace(name)
	var (
		supplier *model.Supplier
		err      error
	)
	switch {
	case id != 0:
		supplier, err = s.repo.FindSupplierByID(ctx, id)
	case name != "":
		supplier, err = s.repo.FindSupplierByName(ctx, name)
	default:
		return nil, invalid("supplier", "is required")
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, invalid("supplier", "unknown supplier")
		}
		return nil, unavailable("suppliers", err)
	}
	return supplier, nil
}

func (s *referenceService) ResolveBudgetHead(ctx context.Context, name string) (*model.BudgetHead, error) {
	return resolveByName(ctx, name, "budget_head", "budget heads", s.repo.FindBudgetHeadByName)
}

func (s *referenceService) ResolveColleague(ctx context.Context, name string) (*model.Colleague, error) {
	return resolveByName(ctx, name, "colleague", "colleagues", s.repo.FindColleagueByName)
}

func (s *referenceService) ResolveColleagueID(ctx context.Context, id uint) (*model.Colleague, error) {
	colleague, err := s.repo.FindColleagueByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, invalid("colleague_id", fmt.Sprintf("unknown or ineligible colleague %d", id))
		}
		return nil, unavailable("colleagues", err)
	}
	return colleague, nil
}

func (s *referenceService) ResolveRecipient(ctx context.Context, name string) (*model.Recipient, error) {
	return resolveByName(ctx, name, "recipient", "recipients", s.repo.FindRecipientByName)
}

func (s *referenceService) ResolveRefundStatus(ctx context.Context, statusType string) (*model.RefundStatus, error) {
	return resolveByName(ctx, statusType, "refund_status", "refund statuses", s.repo.FindRefundStatusByType)
}

func resolveByName[T any](ctx context.Context, name, field, list string, find func(context.Context, string) (*T, error)) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(field, "is required")
	}
	v, err := find(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, invalid(field, fmt.Sprintf("unknown value %q", name))
		}
		return nil, unavailable(list, err)
	}
	return v, nil
}
