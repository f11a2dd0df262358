package handler

import (
	"net/http"
	"testing"

	"vatrefunder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordVoucher(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/vouchers", gin.H{
		"number":      "42",
		"beneficiary": "Iberdrola",
		"amount":      "60.50",
		"quarter":     "3",
		"year":        "2024",
		"budget_head": "Utilities",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var got service.VoucherResponse
	decodeData(t, resp, &got)
	assert.Equal(t, "0000000042", got.Number)
	assert.Equal(t, s.fx.BudgetHead.ID, got.BudgetHeadID)

	w, resp = s.do(t, http.MethodGet, "/api/vouchers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []service.VoucherResponse
	decodeData(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, got.ID, list[0].ID)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestRecordVoucherRejectsInvalidForm(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/vouchers", gin.H{
		"number":      "12345678901",
		"beneficiary": "Iberdrola",
		"amount":      "60.50",
		"quarter":     "3",
		"year":        "2024",
		"budget_head": "Utilities",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "voucher.number")
}
