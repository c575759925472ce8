package handler

import (
	"encoding/json"
	"net/http"

	"procurement_backend/internal/middleware"
	"procurement_backend/internal/service"
	"procurement_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ImportHandler struct {
	importService service.ImportService
	logger        *zap.Logger
}

func NewImportHandler(importService service.ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importService: importService, logger: logger}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup) {
	imports := router.Group("/api/items/import")
	imports.Use(middleware.RequireAdmin())
	{
		imports.POST("/preview", h.Preview)
		imports.POST("/confirm", h.Confirm)
		imports.GET("/template", h.Template)
	}
}

// Preview parses an uploaded CSV without writing anything
// @Summary      Preview catalog import
// @Description  Parses the uploaded file and returns usable rows and per-row errors
// @Tags         import
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file (max 5 MB)"
// @Success      200   {object}  response.Response
// @Router       /api/items/import/preview [post]
func (h *ImportHandler) Preview(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No file uploaded"))
		return
	}

	if errs := h.importService.ValidateUpload(fileHeader); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, response.Success(http.StatusBadRequest, gin.H{"items": []service.ParsedItem{}, "errors": errs}))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "File could not be opened"))
		return
	}
	defer file.Close()

	items, errs := h.importService.Parse(file)
	if errs == nil {
		errs = []string{}
	}
	if items == nil {
		items = []service.ParsedItem{}
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"items": items, "errors": errs}))
}

// Confirm inserts previously previewed rows
// @Summary      Confirm catalog import
// @Tags         import
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ImportResult}
// @Router       /api/items/import/confirm [post]
func (h *ImportHandler) Confirm(c *gin.Context) {
	var body struct {
		Items json.RawMessage `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Items are required"))
		return
	}

	var items []service.ParsedItem
	if err := json.Unmarshal(body.Items, &items); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid items payload"))
		return
	}

	result, err := h.importService.Import(c.Request.Context(), items)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Template serves the import starter file
// @Summary      Download import template
// @Tags         import
// @Security     BearerAuth
// @Produce      text/csv
// @Success      200  {string}  string  "CSV template"
// @Router       /api/items/import/template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="item_import_template.csv"`)
	c.Data(http.StatusOK, "text/csv", h.importService.TemplateCSV())
}
