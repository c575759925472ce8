package handler

import (
	"net/http"

	"procurement_backend/internal/middleware"
	"procurement_backend/internal/service"
	"procurement_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OfficeHandler struct {
	officeService service.OfficeService
	logger        *zap.Logger
}

func NewOfficeHandler(officeService service.OfficeService, logger *zap.Logger) *OfficeHandler {
	return &OfficeHandler{officeService: officeService, logger: logger}
}

func (h *OfficeHandler) RegisterRoutes(router *gin.RouterGroup) {
	offices := router.Group("/api/offices")
	{
		offices.GET("", middleware.RequireAuth(), h.ListOffices)
		offices.POST("", middleware.RequireAdmin(), h.CreateOffice)
	}
}

// ListOffices returns all offices ordered by name
// @Summary      List offices
// @Tags         offices
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Office}
// @Router       /api/offices [get]
func (h *OfficeHandler) ListOffices(c *gin.Context) {
	offices, err := h.officeService.ListOffices(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, offices))
}

// CreateOffice registers a new office
// @Summary      Create office
// @Tags         offices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        office  body      service.CreateOfficeRequest  true  "Office name"
// @Success      201     {object}  response.Response{data=model.Office}
// @Failure      409     {object}  response.Response
// @Router       /api/offices [post]
func (h *OfficeHandler) CreateOffice(c *gin.Context) {
	var req service.CreateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Office name is required"))
		return
	}

	office, err := h.officeService.CreateOffice(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, office))
}
