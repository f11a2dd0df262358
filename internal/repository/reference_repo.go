package repository

import (
	"context"

	"vatrefunder/internal/model"

	"gorm.io/gorm"
)

// ReferenceRepository reads the lookup tables that invoices point at.
type ReferenceRepository interface {
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	FindSupplierByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindSupplierByName(ctx context.Context, name string) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, supplier *model.Supplier) error

	ListBudgetHeads(ctx context.Context) ([]model.BudgetHead, error)
	FindBudgetHeadByName(ctx context.Context, name string) (*model.BudgetHead, error)

	ListColleagues(ctx context.Context) ([]model.Colleague, error)
	FindColleagueByName(ctx context.Context, name string) (*model.Colleague, error)
	FindColleagueByID(ctx context.Context, id uint) (*model.Colleague, error)

	ListRecipients(ctx context.Context) ([]model.Recipient, error)
	FindRecipientByName(ctx context.Context, name string) (*model.Recipient, error)

	ListRefundStatuses(ctx context.Context) ([]model.RefundStatus, error)
	FindRefundStatusByType(ctx context.Context, statusType string) (*model.RefundStatus, error)
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if err := GetDB(ctx, r.db).Order("supplier_name").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *referenceRepository) FindSupplierByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "supplier_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *referenceRepository) FindSupplierByName(ctx context.Context, name string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "supplier_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *referenceRepository) CreateSupplier(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *referenceRepository) ListBudgetHeads(ctx context.Context) ([]model.BudgetHead, error) {
	var heads []model.BudgetHead
	if err := GetDB(ctx, r.db).Order("name").Find(&heads).Error; err != nil {
		return nil, err
	}
	return heads, nil
}

func (r *referenceRepository) FindBudgetHeadByName(ctx context.Context, name string) (*model.BudgetHead, error) {
	var head model.BudgetHead
	if err := GetDB(ctx, r.db).First(&head, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &head, nil
}

func (r *referenceRepository) eligibleColleagues(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).Model(&model.Colleague{}).
		Where("rank_id BETWEEN ? AND ?", model.MinEligibleRank, model.MaxEligibleRank)
}

func (r *referenceRepository) ListColleagues(ctx context.Context) ([]model.Colleague, error) {
	var colleagues []model.Colleague
	if err := r.eligibleColleagues(ctx).Order("rank_id, colleague_name").Find(&colleagues).Error; err != nil {
		return nil, err
	}
	return colleagues, nil
}

func (r *referenceRepository) FindColleagueByName(ctx context.Context, name string) (*model.Colleague, error) {
	var colleague model.Colleague
	if err := r.eligibleColleagues(ctx).First(&colleague, "colleague_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &colleague, nil
}

func (r *referenceRepository) FindColleagueByID(ctx context.Context, id uint) (*model.Colleague, error) {
	var colleague model.Colleague
	if err := r.eligibleColleagues(ctx).First(&colleague, "colleague_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &colleague, nil
}

func (r *referenceRepository) ListRecipients(ctx context.Context) ([]model.Recipient, error) {
	var recipients []model.Recipient
	if err := GetDB(ctx, r.db).Order("name").Find(&recipients).Error; err != nil {
		return nil, err
	}
	return recipients, nil
}

func (r *referenceRepository) FindRecipientByName(ctx context.Context, name string) (*model.Recipient, error) {
	var recipient model.Recipient
	if err := GetDB(ctx, r.db).First(&recipient, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &recipient, nil
}

func (r *referenceRepository) ListRefundStatuses(ctx context.Context) ([]model.RefundStatus, error) {
	var statuses []model.RefundStatus
	if err := GetDB(ctx, r.db).Order("refund_status_id").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *referenceRepository) FindRefundStatusByType(ctx context.Context, statusType string) (*model.RefundStatus, error) {
	var status model.RefundStatus
	if err := GetDB(ctx, r.db).First(&status, "refund_status_type = ?", statusType).Error; err != nil {
		return nil, err
	}
	return &status, nil
}
