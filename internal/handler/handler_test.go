package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vatrefunder/internal/config"
	"vatrefunder/internal/database"
	"vatrefunder/internal/database/dbtest"
	"vatrefunder/internal/repository"
	"vatrefunder/internal/service"
	"vatrefunder/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *gin.Engine
	fx        dbtest.Fixtures
	outputDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	outputDir := t.TempDir()

	refRepo := repository.NewReferenceRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db, database.IsolationLevel(config.DriverSQLite))

	reference := service.NewReferenceService(refRepo, auditRepo, nil)
	voucherRepo := repository.NewVoucherRepository(db)
	invoices := service.NewInvoiceService(invoiceRepo, voucherRepo, auditRepo, reference, txManager, nil)
	vouchers := service.NewVoucherService(voucherRepo, auditRepo, reference, txManager, nil)
	imports := service.NewImportService(invoiceRepo, auditRepo, reference, nil)
	exports := service.NewExportService(repository.NewExportRepository(db), auditRepo, reference, outputDir, nil)

	router := gin.New()
	root := router.Group("")
	NewReferenceHandler(reference).RegisterRoutes(root)
	NewInvoiceHandler(invoices, imports).RegisterRoutes(root)
	NewVoucherHandler(vouchers).RegisterRoutes(root)
	NewVatHandler().RegisterRoutes(root)
	NewExportHandler(exports).RegisterRoutes(root)
	NewAuditHandler(service.NewAuditService(auditRepo)).RegisterRoutes(root)

	return &testServer{router: router, fx: fx, outputDir: outputDir}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp response.Response
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// decodeData re-decodes the envelope's data field into out.
func decodeData(t *testing.T, resp response.Response, out any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func chanceryPayload(number string) gin.H {
	return gin.H{
		"invoice": gin.H{
			"supplier_name": "ACME SL",
			"number":        number,
			"date":          "2024-04-15",
			"total_amount":  "121.00",
			"vat_amount":    "21.00",
			"refundable":    true,
		},
		"voucher": gin.H{
			"number":      "7",
			"beneficiary": "ACME SL",
			"amount":      "121.00",
			"quarter":     "2",
			"year":        "2024",
			"budget_head": "Utilities",
		},
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&service.ValidationError{Field: "date", Reason: "bad"}, http.StatusBadRequest},
		{&service.SchemaError{Missing: []string{"Invoice_VAT"}}, http.StatusBadRequest},
		{&service.DuplicateInvoiceError{Number: "X"}, http.StatusConflict},
		{service.ErrNoData, http.StatusNotFound},
		{service.ErrDataUnavailable, http.StatusServiceUnavailable},
		{service.ErrPersistence, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
