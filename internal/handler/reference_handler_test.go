package handler

import (
	"net/http"
	"testing"

	"vatrefunder/internal/model"
	"vatrefunder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLookups(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/lookups", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lookups service.Lookups
	decodeData(t, resp, &lookups)
	assert.Len(t, lookups.Suppliers, 2)
	assert.Len(t, lookups.Colleagues, 1)
	assert.Empty(t, lookups.Warnings)
}

func TestCreateSupplier(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/suppliers", gin.H{"tax_code": "b99999999", "name": "Endesa"})
	require.Equal(t, http.StatusCreated, w.Code)
	var supplier model.Supplier
	decodeData(t, resp, &supplier)
	assert.Equal(t, "B99999999", supplier.TaxCode)

	w, _ = s.do(t, http.MethodGet, "/api/suppliers", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = s.do(t, http.MethodPost, "/api/suppliers", gin.H{"tax_code": "B1", "name": "Endesa"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "already exists")
}

func TestCreateSupplierRejectsMissingFields(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/suppliers", gin.H{"name": "Endesa"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestListBudgetHeads(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/budget-heads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var heads map[string]uint
	decodeData(t, resp, &heads)
	assert.Equal(t, s.fx.BudgetHead.ID, heads["Utilities"])
}
