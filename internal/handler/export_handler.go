package handler

import (
	"fmt"
	"net/http"

	"procurement_backend/internal/middleware"
	"procurement_backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/exports/approved-items", middleware.RequireAdmin(), h.ApprovedItemsCSV)
	router.GET("/api/requests/:id/export", middleware.RequireAuth(), h.RequestWorkbook)
}

// ApprovedItemsCSV downloads the aggregated approved-items report
// @Summary      Approved items report
// @Description  One row per item and unit type across all approved requests
// @Tags         exports
// @Security     BearerAuth
// @Produce      text/csv
// @Param        date_from  query     string  false  "YYYY-MM-DD"
// @Param        date_to    query     string  false  "YYYY-MM-DD"
// @Param        year       query     string  false  "Whole-year shortcut, ignored when a range is given"
// @Success      200        {string}  string  "CSV report"
// @Router       /api/exports/approved-items [get]
func (h *ExportHandler) ApprovedItemsCSV(c *gin.Context) {
	rows, err := h.exportService.ApprovedItemsReport(c.Request.Context(), service.ExportReportInput{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Year:     c.Query("year"),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="approved_items_report.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", h.exportService.WriteApprovedItemsCSV(rows))
}

// RequestWorkbook downloads one request as a printable Excel purchase form
// @Summary      Export request
// @Tags         exports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path      string  true  "Request id"
// @Success      200  {string}  string  "Excel workbook"
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id}/export [get]
func (h *ExportHandler) RequestWorkbook(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	workbook, filename, err := h.exportService.BuildRequestWorkbook(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("workbook write failed", zap.Error(err))
	}
}
