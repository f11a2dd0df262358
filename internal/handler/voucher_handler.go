package handler

import (
	"net/http"

	"vatrefunder/internal/service"
	"vatrefunder/pkg/pagination"
	"vatrefunder/pkg/response"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	voucherService service.VoucherService
}

func NewVoucherHandler(voucherService service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

func (h *VoucherHandler) RegisterRoutes(router *gin.RouterGroup) {
	vouchers := router.Group("/api/vouchers")
	{
		vouchers.POST("", h.RecordVoucher)
		vouchers.GET("", h.ListVouchers)
	}
}

// RecordVoucher stores a payment voucher that is not tied to an invoice
// @Summary      Record voucher
// @Description  The voucher number is left-padded with zeros to 10 characters
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VoucherFields  true  "Voucher form"
// @Success      201      {object}  response.Response{data=service.VoucherResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/vouchers [post]
func (h *VoucherHandler) RecordVoucher(c *gin.Context) {
	var req service.VoucherFields
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	voucher, err := h.voucherService.RecordVoucher(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, voucher))
}

// ListVouchers returns a page of vouchers, latest period first
// @Summary      List vouchers
// @Tags         vouchers
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 50)"
// @Success      200    {object}  response.Response{data=[]service.VoucherResponse}
// @Router       /api/vouchers [get]
func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	p := pagination.Parse(c)

	vouchers, total, err := h.voucherService.ListVouchers(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, vouchers, p.Page, p.Limit, total))
}
