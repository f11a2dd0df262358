package handler

import (
	"net/http"

	"vatrefunder/internal/service"
	"vatrefunder/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type VatHandler struct{}

func NewVatHandler() *VatHandler {
	return &VatHandler{}
}

func (h *VatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/vat/gross", h.FromGross)
}

type GrossVatResponse struct {
	Total string `json:"total"`
	Vat   string `json:"vat"`
}

// FromGross computes the 21% VAT contained in a VAT-inclusive total
// @Summary      VAT from gross total
// @Tags         vat
// @Produce      json
// @Param        total  query     string  true  "VAT-inclusive amount"
// @Success      200    {object}  response.Response{data=GrossVatResponse}
// @Failure      400    {object}  response.Response
// @Router       /api/vat/gross [get]
func (h *VatHandler) FromGross(c *gin.Context) {
	total, err := decimal.NewFromString(c.Query("total"))
	if err != nil || total.IsNegative() {
		badRequest(c, "total must be a non-negative decimal")
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, GrossVatResponse{
		Total: total.StringFixed(2),
		Vat:   service.VatFromGrossTotal(total).StringFixed(2),
	}))
}
