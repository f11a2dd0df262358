package handler

import (
	"net/http"

	"vatrefunder/internal/batch"
	"vatrefunder/internal/model"
	"vatrefunder/internal/service"
	"vatrefunder/pkg/pagination"
	"vatrefunder/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxImportSize caps the multipart upload accepted by the import endpoint.
const maxImportSize = 10 << 20

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	importService  service.ImportService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, importService service.ImportService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		importService:  importService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("/:category", h.RecordInvoice)
		invoices.GET("/:category", h.ListInvoices)
		invoices.POST("/:category/import", h.ImportBatch)
	}
}

func categoryParam(c *gin.Context) (model.Category, bool) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	return category, true
}

// RecordInvoice stores one invoice and its optional voucher atomically
// @Summary      Record invoice
// @Description  Validates the form, rejects duplicate numbers within the category and writes voucher, invoice and audit entry in one transaction
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        category  path      string                        true  "chancery, residence or personal"
// @Param        payload   body      service.RecordInvoiceRequest  true  "Invoice and optional voucher"
// @Success      201       {object}  response.Response{data=service.RecordResult}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      500       {object}  response.Response
// @Router       /api/invoices/{category} [post]
func (h *InvoiceHandler) RecordInvoice(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	var req service.RecordInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.invoiceService.RecordInvoice(c.Request.Context(), category, req.Invoice, req.Voucher)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListInvoices returns a page of invoices of one category, newest first
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        category  path      string  true   "chancery, residence or personal"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 50)"
// @Success      200       {object}  response.Response{data=[]service.InvoiceResponse}
// @Failure      400       {object}  response.Response
// @Router       /api/invoices/{category} [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), category, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, invoices, p.Page, p.Limit, total))
}

// ImportBatch loads a CSV or XLSX file of invoices into one category
// @Summary      Import invoices
// @Description  Rows whose number already exists are skipped and reported; rows that fail validation are reported by line
// @Tags         invoices
// @Accept       multipart/form-data
// @Produce      json
// @Param        category  path      string  true  "chancery or residence"
// @Param        file      formData  file    true  "CSV or XLSX file"
// @Success      200       {object}  response.Response{data=service.ImportResult}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /api/invoices/{category}/import [post]
func (h *InvoiceHandler) ImportBatch(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required: "+err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer f.Close()

	b, err := batch.Read(header.Filename, f)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.importService.ImportBatch(c.Request.Context(), category, b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
