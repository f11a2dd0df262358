package service

import (
	"context"
	"strings"
	"testing"

	"vatrefunder/internal/batch"
	"vatrefunder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importHeader = "Supplier_Name;Invoice_Number;Invoice_Date;Invoice_Amount;Invoice_VAT;Refundable\n"

func readBatch(t *testing.T, content string) *batch.Batch {
	t.Helper()
	b, err := batch.Read("upload.csv", strings.NewReader(content))
	require.NoError(t, err)
	return b
}

func TestImportBatchSkipsExistingNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	existing := chanceryFields("ACME SL")
	existing.Number = "B-2"
	_, err := env.recorder().RecordInvoice(ctx, model.CategoryChancery, existing, nil)
	require.NoError(t, err)

	b := readBatch(t, importHeader+
		"ACME SL;B-1;2024-01-10;121.00;21.00;true\n"+
		"ACME SL;B-2;2024-01-11;60.50;10.50;yes\n"+
		"Iberdrola;B-3;12/01/2024;10;1.74;0\n")

	res, err := env.importer().ImportBatch(ctx, model.CategoryChancery, b)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, []string{"B-2"}, res.SkippedDuplicates)
	assert.Empty(t, res.RowErrors)
	assert.Equal(t, int64(3), env.countRows(t, "invoices_chancery"))

	b3, err := env.invoiceRepo.FindByNumber(ctx, model.CategoryChancery, "B-3")
	require.NoError(t, err)
	assert.False(t, b3.Refundable)
	assert.Equal(t, env.fx.OtherSupplier.ID, b3.SupplierID)
	assert.Equal(t, "2024-01-12", b3.Date.Format(dateLayout))
	assert.Equal(t, model.StatusPending, b3.Status)

	assert.Contains(t, env.events.names(), EventBatchImported)
}

func TestImportBatchRowErrorsDoNotAbort(t *testing.T) {
	env := newTestEnv(t)

	b := readBatch(t, "Supplier_Name;Invoice_Number;Invoice_Date;Invoice_Amount;Invoice_VAT;Refundable;Status\n"+
		"ACME SL;R-1;2024-01-10;121.00;21.00;true;Processed\n"+
		"Nobody;R-2;2024-01-10;121.00;21.00;true;\n"+
		"ACME SL;R-3;not a date;121.00;21.00;true;\n"+
		"ACME SL;R-4;2024-01-10;-5;0;true;\n"+
		"ACME SL;R-5;2024-01-10;5;0;perhaps;\n"+
		"ACME SL;R-1;2024-01-10;121.00;21.00;true;\n")

	res, err := env.importer().ImportBatch(context.Background(), model.CategoryResidence, b)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, []string{"R-1"}, res.SkippedDuplicates)
	require.Len(t, res.RowErrors, 4)
	lines := []int{res.RowErrors[0].Line, res.RowErrors[1].Line, res.RowErrors[2].Line, res.RowErrors[3].Line}
	assert.Equal(t, []int{3, 4, 5, 6}, lines)
	assert.Contains(t, res.RowErrors[0].Reason, "unknown supplier")

	stored, err := env.invoiceRepo.FindByNumber(context.Background(), model.CategoryResidence, "R-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, stored.Status)
}

func TestImportBatchMissingColumn(t *testing.T) {
	env := newTestEnv(t)

	b := readBatch(t, "Supplier_Name;Invoice_Number;Invoice_Date;Invoice_Amount\nACME SL;X;2024-01-10;1\n")
	_, err := env.importer().ImportBatch(context.Background(), model.CategoryChancery, b)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Equal(t, []string{ColInvoiceVAT, ColRefundable}, schemaErr.Missing)
	assert.Equal(t, int64(0), env.countRows(t, "invoices_chancery"))
}

func TestImportBatchRejectsPersonal(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.importer().ImportBatch(context.Background(), model.CategoryPersonal, readBatch(t, importHeader))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestImportBatchConcurrentInsertFailsWhole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	existing := chanceryFields("ACME SL")
	existing.Number = "C-2"
	_, err := env.recorder().RecordInvoice(ctx, model.CategoryChancery, existing, nil)
	require.NoError(t, err)

	env.invoiceRepo = blindInvoiceRepo{env.invoiceRepo}
	b := readBatch(t, importHeader+
		"ACME SL;C-1;2024-01-10;121.00;21.00;true\n"+
		"ACME SL;C-2;2024-01-11;60.50;10.50;true\n")

	_, err = env.importer().ImportBatch(ctx, model.CategoryChancery, b)
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
	assert.Equal(t, int64(1), env.countRows(t, "invoices_chancery"))
}

func TestImportBatchBareNumbersAreNotDates(t *testing.T) {
	env := newTestEnv(t)

	b := readBatch(t, importHeader+
		"ACME SL;D-1;2024;121.00;21.00;true\n"+
		"ACME SL;D-2;15;121.00;21.00;true\n")

	res, err := env.importer().ImportBatch(context.Background(), model.CategoryChancery, b)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Inserted)
	require.Len(t, res.RowErrors, 2)
	assert.Contains(t, res.RowErrors[0].Reason, "date")
	assert.Equal(t, int64(0), env.countRows(t, "invoices_chancery"))
}

func TestImportBatchOverlongNumberIsRowError(t *testing.T) {
	env := newTestEnv(t)

	long := strings.Repeat("9", model.InvoiceNumberMaxLength+1)
	b := readBatch(t, importHeader+
		"ACME SL;L-1;2024-01-10;121.00;21.00;true\n"+
		"ACME SL;"+long+";2024-01-10;121.00;21.00;true\n")

	res, err := env.importer().ImportBatch(context.Background(), model.CategoryChancery, b)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Inserted)
	require.Len(t, res.RowErrors, 1)
	assert.Equal(t, 3, res.RowErrors[0].Line)
	assert.Contains(t, res.RowErrors[0].Reason, "at most 50 characters")
}

func TestImportBatchSupplierNamesMatchExactly(t *testing.T) {
	env := newTestEnv(t)

	b := readBatch(t, importHeader+
		"acme sl;S-1;2024-01-10;121.00;21.00;true\n"+
		" ACME SL ;S-2;2024-01-10;121.00;21.00;true\n")

	res, err := env.importer().ImportBatch(context.Background(), model.CategoryChancery, b)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Inserted)
	require.Len(t, res.RowErrors, 1)
	assert.Equal(t, 2, res.RowErrors[0].Line)
	assert.Contains(t, res.RowErrors[0].Reason, "unknown supplier")

	_, err = env.reference.ResolveSupplier(context.Background(), 0, "acme sl")
	assert.ErrorIs(t, err, ErrValidation)
}
