package repository

import (
	"context"
	"fmt"

	"vatrefunder/internal/model"

	"gorm.io/gorm"
)

// existingNumbersChunk keeps IN lists well below driver parameter limits.
const existingNumbersChunk = 500

// InvoiceRepository writes and reads the per-category invoice tables.
// Invoices are never updated or deleted.
type InvoiceRepository interface {
	ExistsByNumber(ctx context.Context, category model.Category, number string) (bool, error)
	FindExistingNumbers(ctx context.Context, category model.Category, numbers []string) (map[string]struct{}, error)
	Create(ctx context.Context, category model.Category, invoice *model.Invoice) error
	CreatePersonal(ctx context.Context, invoice *model.PersonalInvoice) error
	CreateBatch(ctx context.Context, category model.Category, invoices []model.Invoice) error
	FindByNumber(ctx context.Context, category model.Category, number string) (*model.Invoice, error)
	List(ctx context.Context, category model.Category, page, limit int) ([]model.Invoice, int64, error)
	Count(ctx context.Context, category model.Category) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) table(ctx context.Context, category model.Category) *gorm.DB {
	return GetDB(ctx, r.db).Table(category.Table())
}

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, category model.Category, number string) (bool, error) {
	var count int64
	if err := r.table(ctx, category).Where("number = ?", number).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *invoiceRepository) FindExistingNumbers(ctx context.Context, category model.Category, numbers []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	for start := 0; start < len(numbers); start += existingNumbersChunk {
		end := min(start+existingNumbersChunk, len(numbers))

		var found []string
		if err := r.table(ctx, category).Where("number IN ?", numbers[start:end]).Pluck("number", &found).Error; err != nil {
			return nil, err
		}
		for _, n := range found {
			existing[n] = struct{}{}
		}
	}
	return existing, nil
}

// Create inserts a Chancery or Residence invoice. Personal invoices need CreatePersonal.
func (r *invoiceRepository) Create(ctx context.Context, category model.Category, invoice *model.Invoice) error {
	if category == model.CategoryPersonal {
		return fmt.Errorf("personal invoices must be created with their claimant details")
	}
	return r.table(ctx, category).Create(invoice).Error
}

func (r *invoiceRepository) CreatePersonal(ctx context.Context, invoice *model.PersonalInvoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

// CreateBatch inserts all rows with a single INSERT statement.
func (r *invoiceRepository) CreateBatch(ctx context.Context, category model.Category, invoices []model.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	if category == model.CategoryPersonal {
		return fmt.Errorf("personal invoices cannot be bulk inserted")
	}
	return r.table(ctx, category).Create(&invoices).Error
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, category model.Category, number string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.table(ctx, category).Where("number = ?", number).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, category model.Category, page, limit int) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	if err := r.table(ctx, category).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.table(ctx, category).Order("date desc, invoice_id desc").Offset(offset).Limit(limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) Count(ctx context.Context, category model.Category) (int64, error) {
	var count int64
	if err := r.table(ctx, category).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
