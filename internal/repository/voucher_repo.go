package repository

import (
	"context"

	"vatrefunder/internal/model"

	"gorm.io/gorm"
)

// VoucherRepository only inserts and reads. Vouchers are never updated.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *model.Voucher) error
	FindByID(ctx context.Context, id uint) (*model.Voucher, error)
	List(ctx context.Context, page, limit int) ([]model.Voucher, int64, error)
	Count(ctx context.Context) (int64, error)
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *model.Voucher) error {
	return GetDB(ctx, r.db).Create(voucher).Error
}

func (r *voucherRepository) FindByID(ctx context.Context, id uint) (*model.Voucher, error) {
	var voucher model.Voucher
	if err := GetDB(ctx, r.db).First(&voucher, "voucher_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) List(ctx context.Context, page, limit int) ([]model.Voucher, int64, error) {
	var vouchers []model.Voucher
	var total int64

	if err := GetDB(ctx, r.db).Model(&model.Voucher{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Order("voucher_year desc, voucher_quarter desc, voucher_id desc").Offset(offset).Limit(limit).Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}

	return vouchers, total, nil
}

func (r *voucherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Voucher{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
