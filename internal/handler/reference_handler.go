package handler

import (
	"net/http"

	"vatrefunder/internal/service"
	"vatrefunder/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	referenceService service.ReferenceService
}

func NewReferenceHandler(referenceService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/lookups", h.GetLookups)
		api.GET("/suppliers", h.ListSuppliers)
		api.POST("/suppliers", h.CreateSupplier)
		api.GET("/budget-heads", h.ListBudgetHeads)
		api.GET("/colleagues", h.ListColleagues)
		api.GET("/recipients", h.ListRecipients)
		api.GET("/refund-statuses", h.ListRefundStatuses)
	}
}

// GetLookups returns every reference list in one round trip
// @Summary      Get lookups
// @Description  Suppliers, budget heads, eligible colleagues, recipients and refund statuses. A list that cannot be loaded is returned empty with a warning.
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Lookups}
// @Router       /api/lookups [get]
func (h *ReferenceHandler) GetLookups(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.referenceService.Lookups(c.Request.Context())))
}

// ListSuppliers
// @Summary      List suppliers
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Supplier}
// @Failure      503  {object}  response.Response
// @Router       /api/suppliers [get]
func (h *ReferenceHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.referenceService.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, suppliers))
}

// CreateSupplier registers a supplier under its NIF code
// @Summary      Create supplier
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSupplierRequest  true  "Supplier"
// @Success      201      {object}  response.Response{data=model.Supplier}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/suppliers [post]
func (h *ReferenceHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	supplier, err := h.referenceService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, supplier))
}

// ListBudgetHeads returns budget head names keyed to their ids
// @Summary      List budget heads
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]int}
// @Failure      503  {object}  response.Response
// @Router       /api/budget-heads [get]
func (h *ReferenceHandler) ListBudgetHeads(c *gin.Context) {
	heads, err := h.referenceService.ListBudgetHeads(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, heads))
}

// ListColleagues
// @Summary      List eligible colleagues
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Colleague}
// @Failure      503  {object}  response.Response
// @Router       /api/colleagues [get]
func (h *ReferenceHandler) ListColleagues(c *gin.Context) {
	colleagues, err := h.referenceService.ListColleagues(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, colleagues))
}

// ListRecipients
// @Summary      List recipients
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Recipient}
// @Failure      503  {object}  response.Response
// @Router       /api/recipients [get]
func (h *ReferenceHandler) ListRecipients(c *gin.Context) {
	recipients, err := h.referenceService.ListRecipients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, recipients))
}

// ListRefundStatuses
// @Summary      List refund statuses
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.RefundStatus}
// @Failure      503  {object}  response.Response
// @Router       /api/refund-statuses [get]
func (h *ReferenceHandler) ListRefundStatuses(c *gin.Context) {
	statuses, err := h.referenceService.ListRefundStatuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, statuses))
}
