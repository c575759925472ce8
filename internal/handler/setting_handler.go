package handler

import (
	"net/http"

	"procurement_backend/internal/middleware"
	"procurement_backend/internal/model"
	"procurement_backend/internal/service"
	"procurement_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SettingHandler struct {
	settingService service.SettingService
	logger         *zap.Logger
}

func NewSettingHandler(settingService service.SettingService, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{settingService: settingService, logger: logger}
}

func (h *SettingHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/settings")
	{
		settings.GET("/signatures", middleware.RequireAuth(), h.GetSignatures)
		settings.PUT("/signatures", middleware.RequireAdmin(), h.SaveSignatures)
	}
}

// GetSignatures returns the four signature blocks used on exports
// @Summary      Get signature blocks
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.SignatureBlock}
// @Router       /api/settings/signatures [get]
func (h *SettingHandler) GetSignatures(c *gin.Context) {
	blocks, err := h.settingService.GetSignatureBlocks(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, blocks[:]))
}

// SaveSignatures replaces all four signature blocks
// @Summary      Save signature blocks
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        blocks  body      []model.SignatureBlock  true  "Exactly four blocks in display order"
// @Success      200     {object}  response.Response
// @Router       /api/settings/signatures [put]
func (h *SettingHandler) SaveSignatures(c *gin.Context) {
	var blocks []model.SignatureBlock
	if err := c.ShouldBindJSON(&blocks); err != nil || len(blocks) != 4 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Exactly four signature blocks are required"))
		return
	}

	var fixed [4]model.SignatureBlock
	copy(fixed[:], blocks)
	if err := h.settingService.SaveSignatureBlocks(c.Request.Context(), fixed); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "signatures saved"}))
}
