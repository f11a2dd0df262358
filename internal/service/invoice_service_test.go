package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vatrefunder/internal/model"
	"vatrefunder/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func chanceryFields(supplier string) InvoiceFields {
	return InvoiceFields{
		SupplierName: supplier,
		Number:       "INV-2024-00123",
		Date:         "2024-01-15",
		TotalAmount:  "121.00",
		VatAmount:    "21.00",
		Refundable:   true,
	}
}

func voucherFields() *VoucherFields {
	return &VoucherFields{
		Number:         "7",
		Beneficiary:    "ACME SL",
		Amount:         "121.00",
		Quarter:        "1",
		Year:           "2024",
		BudgetHeadName: "Utilities",
	}
}

func TestRecordInvoiceWithVoucher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.recorder().RecordInvoice(ctx, model.CategoryChancery, chanceryFields("ACME SL"), voucherFields())
	require.NoError(t, err)

	assert.NotZero(t, res.InvoiceID)
	require.NotNil(t, res.VoucherID)
	assert.Equal(t, "0000000007", res.VoucherNumber)

	stored, err := env.invoiceRepo.FindByNumber(ctx, model.CategoryChancery, "INV-2024-00123")
	require.NoError(t, err)
	require.NotNil(t, stored.VoucherID)
	assert.Equal(t, *res.VoucherID, *stored.VoucherID)
	assert.Equal(t, env.fx.Supplier.ID, stored.SupplierID)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Equal(t, "21.00", stored.Vat.StringFixed(2))

	voucher, err := env.voucherRepo.FindByID(ctx, *res.VoucherID)
	require.NoError(t, err)
	assert.Equal(t, "0000000007", voucher.Number)
	assert.Equal(t, env.fx.BudgetHead.ID, voucher.BudgetHeadID)

	assert.Equal(t, int64(1), env.countRows(t, "audit_logs"))
	assert.Equal(t, []string{EventInvoiceRecorded}, env.events.names())
}

func TestRecordInvoiceWithoutVoucher(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.recorder().RecordInvoice(context.Background(), model.CategoryResidence, chanceryFields("ACME SL"), &VoucherFields{})
	require.NoError(t, err)

	assert.Nil(t, res.VoucherID)
	assert.Equal(t, int64(0), env.countRows(t, "vouchers"))
	assert.Equal(t, int64(1), env.countRows(t, "invoices_residence"))
}

func TestRecordInvoiceDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	recorder := env.recorder()

	_, err := recorder.RecordInvoice(ctx, model.CategoryChancery, chanceryFields("ACME SL"), nil)
	require.NoError(t, err)

	_, err = recorder.RecordInvoice(ctx, model.CategoryChancery, chanceryFields("ACME SL"), voucherFields())
	assert.ErrorIs(t, err, ErrDuplicateInvoice)

	assert.Equal(t, int64(1), env.countRows(t, "invoices_chancery"))
	assert.Equal(t, int64(0), env.countRows(t, "vouchers"))
}

func TestRecordInvoiceRollsBackVoucherWhenInvoiceInsertFails(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register("test:fail_invoice", func(tx *gorm.DB) {
		if tx.Statement.Table == model.CategoryChancery.Table() {
			tx.AddError(errors.New("disk I/O error"))
		}
	}))

	_, err := env.recorder().RecordInvoice(context.Background(), model.CategoryChancery, chanceryFields("ACME SL"), voucherFields())
	require.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "disk I/O error")

	assert.Equal(t, int64(0), env.countRows(t, "vouchers"))
	assert.Equal(t, int64(0), env.countRows(t, "invoices_chancery"))
	assert.Equal(t, int64(0), env.countRows(t, "audit_logs"))
	assert.Empty(t, env.events.names())
}

// blindInvoiceRepo never sees existing numbers, as if a concurrent writer
// committed between the check and the insert.
type blindInvoiceRepo struct {
	repository.InvoiceRepository
}

func (blindInvoiceRepo) ExistsByNumber(context.Context, model.Category, string) (bool, error) {
	return false, nil
}

func (blindInvoiceRepo) FindExistingNumbers(context.Context, model.Category, []string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func TestRecordInvoiceUniqueViolationAtInsertIsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.recorder().RecordInvoice(ctx, model.CategoryChancery, chanceryFields("ACME SL"), nil)
	require.NoError(t, err)

	env.invoiceRepo = blindInvoiceRepo{env.invoiceRepo}
	_, err = env.recorder().RecordInvoice(ctx, model.CategoryChancery, chanceryFields("ACME SL"), voucherFields())

	var dup *DuplicateInvoiceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "INV-2024-00123", dup.Number)
	assert.Equal(t, int64(0), env.countRows(t, "vouchers"))
	assert.Equal(t, int64(1), env.countRows(t, "invoices_chancery"))
}

func TestRecordInvoiceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	partial := &VoucherFields{Number: "7", Beneficiary: "ACME SL"}
	tooLong := voucherFields()
	tooLong.Number = "12345678901"
	badQuarter := voucherFields()
	badQuarter.Quarter = "5"
	unknownHead := voucherFields()
	unknownHead.BudgetHeadName = "Travel"
	longBeneficiary := voucherFields()
	longBeneficiary.Beneficiary = strings.Repeat("b", model.NameMaxLength+1)
	longNumber := chanceryFields("ACME SL")
	longNumber.Number = strings.Repeat("N", model.InvoiceNumberMaxLength+1)
	hugeTotal := chanceryFields("ACME SL")
	hugeTotal.TotalAmount = "10000000000.00"

	tests := []struct {
		name     string
		category model.Category
		fields   InvoiceFields
		voucher  *VoucherFields
		field    string
	}{
		{"unknown category", "embassy", chanceryFields("ACME SL"), nil, "category"},
		{"unknown supplier", model.CategoryChancery, chanceryFields("Nobody"), nil, "supplier"},
		{"missing supplier", model.CategoryChancery, chanceryFields(""), nil, "supplier"},
		{"partial voucher", model.CategoryChancery, chanceryFields("ACME SL"), partial, "voucher.amount"},
		{"voucher number too long", model.CategoryChancery, chanceryFields("ACME SL"), tooLong, "voucher.number"},
		{"voucher quarter out of range", model.CategoryChancery, chanceryFields("ACME SL"), badQuarter, "voucher.quarter"},
		{"unknown budget head", model.CategoryChancery, chanceryFields("ACME SL"), unknownHead, "voucher.budget_head"},
		{"personal without colleague", model.CategoryPersonal, chanceryFields("ACME SL"), nil, "colleague"},
		{"number too long", model.CategoryChancery, longNumber, nil, "number"},
		{"total wider than column", model.CategoryChancery, hugeTotal, nil, "total_amount"},
		{"beneficiary too long", model.CategoryChancery, chanceryFields("ACME SL"), longBeneficiary, "voucher.beneficiary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.recorder().RecordInvoice(ctx, tt.category, tt.fields, tt.voucher)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	assert.Equal(t, int64(0), env.countRows(t, "vouchers"))
	assert.Equal(t, int64(0), env.countRows(t, "invoices_chancery"))
}

func TestRecordPersonalInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fields := chanceryFields("")
	fields.SupplierID = env.fx.OtherSupplier.ID
	fields.ColleagueName = "Jane Roe"
	fields.RecipientName = "Embassy"
	fields.RefundStatus = "Submitted"
	fields.DateRefunded = "2024-03-01"
	fields.VatAmount = ""
	fields.VatInclusive21 = true

	res, err := env.recorder().RecordInvoice(ctx, model.CategoryPersonal, fields, nil)
	require.NoError(t, err)

	var stored model.PersonalInvoice
	require.NoError(t, env.db.First(&stored, "invoice_id = ?", res.InvoiceID).Error)
	assert.Equal(t, env.fx.Colleague.ID, stored.ColleagueID)
	assert.Equal(t, env.fx.Recipient.ID, stored.RecipientID)
	assert.Equal(t, env.fx.RefundStatus.ID, stored.RefundStatusID)
	require.NotNil(t, stored.DateRefunded)
	assert.Equal(t, "2024-03-01", stored.DateRefunded.Format(dateLayout))
	assert.Equal(t, "21.00", stored.Vat.StringFixed(2))
	assert.Equal(t, env.fx.OtherSupplier.ID, stored.SupplierID)
}

func TestListInvoices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	recorder := env.recorder()

	for _, n := range []string{"A-1", "A-2", "A-3"} {
		f := chanceryFields("ACME SL")
		f.Number = n
		_, err := recorder.RecordInvoice(ctx, model.CategoryChancery, f, nil)
		require.NoError(t, err)
	}

	page, total, err := recorder.ListInvoices(ctx, model.CategoryChancery, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
	assert.Equal(t, "121.00", page[0].Total)
	assert.Equal(t, "2024-01-15", page[0].Date)
}
