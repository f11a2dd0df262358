package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vatrefunder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInvoice(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/invoices/chancery", chanceryPayload("INV-2024-00123"))
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)

	var result service.RecordResult
	decodeData(t, resp, &result)
	assert.NotZero(t, result.InvoiceID)
	require.NotNil(t, result.VoucherID)
	assert.Equal(t, "0000000007", result.VoucherNumber)

	w, resp = s.do(t, http.MethodPost, "/api/invoices/chancery", chanceryPayload("INV-2024-00123"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, resp.Error, "INV-2024-00123")

	// the same number is free in another category
	w, _ = s.do(t, http.MethodPost, "/api/invoices/residence", chanceryPayload("INV-2024-00123"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRecordInvoiceValidation(t *testing.T) {
	s := newTestServer(t)

	payload := chanceryPayload("INV-1")
	payload["invoice"].(gin.H)["date"] = "15/04/2024"
	w, resp := s.do(t, http.MethodPost, "/api/invoices/chancery", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "date")

	w, _ = s.do(t, http.MethodPost, "/api/invoices/embassy", chanceryPayload("INV-2"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = s.do(t, http.MethodPost, "/api/invoices/chancery", chanceryPayload(strings.Repeat("9", 51)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "number")
}

func TestListInvoicesPaginates(t *testing.T) {
	s := newTestServer(t)
	for _, n := range []string{"A-1", "A-2", "A-3"} {
		w, resp := s.do(t, http.MethodPost, "/api/invoices/chancery", chanceryPayload(n))
		require.Equal(t, http.StatusCreated, w.Code, resp.Error)
	}

	w, resp := s.do(t, http.MethodGet, "/api/invoices/chancery?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, int64(2), resp.Pagination.TotalPages)

	var invoices []service.InvoiceResponse
	decodeData(t, resp, &invoices)
	assert.Len(t, invoices, 1)
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportBatch(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodPost, "/api/invoices/chancery", chanceryPayload("B-2"))
	require.Equal(t, http.StatusCreated, w.Code)

	csv := "Supplier_Name;Invoice_Number;Invoice_Date;Invoice_Amount;Invoice_VAT;Refundable\n" +
		"ACME SL;B-1;2024-04-01;121.00;21.00;true\n" +
		"ACME SL;B-2;2024-04-02;60.50;10.50;true\n" +
		"Iberdrola;B-3;03/04/2024;242.00;42.00;false\n"
	w, resp := s.serve(t, uploadRequest(t, "/api/invoices/chancery/import", "q2.csv", csv))
	require.Equal(t, http.StatusOK, w.Code, resp.Error)

	var result service.ImportResult
	decodeData(t, resp, &result)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, []string{"B-2"}, result.SkippedDuplicates)
	assert.Empty(t, result.RowErrors)
}

func TestImportBatchErrors(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.serve(t, uploadRequest(t, "/api/invoices/chancery/import", "q2.csv", "Supplier_Name;Invoice_Number\nACME SL;X\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "Invoice_Date")

	w, _ = s.serve(t, uploadRequest(t, "/api/invoices/chancery/import", "q2.txt", "whatever"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/invoices/chancery/import", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
