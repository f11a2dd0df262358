package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"vatrefunder/internal/service"
	"vatrefunder/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	exports := router.Group("/api/exports")
	{
		exports.POST("", h.BuildExport)
		exports.GET("/files/:name", h.DownloadFile)
	}
}

// BuildExport produces the quarterly submission files
// @Summary      Build export
// @Description  Scopes: official, chancery, residence, personal, vouchers. Formats: pdf, csv
// @Tags         exports
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ExportRequest  true  "Export request"
// @Success      201      {object}  response.Response{data=service.ExportResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/exports [post]
func (h *ExportHandler) BuildExport(c *gin.Context) {
	var req service.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.exportService.BuildExport(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	for i, f := range result.Files {
		result.Files[i] = filepath.Base(f)
	}
	if result.AuditFile != "" {
		result.AuditFile = filepath.Base(result.AuditFile)
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// DownloadFile serves a previously built file from the output directory
// @Summary      Download export file
// @Tags         exports
// @Produce      octet-stream
// @Param        name  path  string  true  "File name returned by POST /api/exports"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /api/exports/files/{name} [get]
func (h *ExportHandler) DownloadFile(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	if name == "." || name == string(filepath.Separator) {
		badRequest(c, "file name is required")
		return
	}
	path := filepath.Join(h.exportService.OutputDirectory(), name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "file not found"))
		return
	}
	c.FileAttachment(path, name)
}
