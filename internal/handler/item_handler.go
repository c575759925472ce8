package handler

import (
	"net/http"
	"strconv"

	"procurement_backend/internal/middleware"
	"procurement_backend/internal/service"
	"procurement_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItemHandler struct {
	itemService service.ItemService
	logger      *zap.Logger
}

func NewItemHandler(itemService service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{itemService: itemService, logger: logger}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.GET("", middleware.RequireAdmin(), h.ListItems)
		items.POST("", middleware.RequireAdmin(), h.CreateItem)
		items.PUT("/:id", middleware.RequireAdmin(), h.UpdateItem)
		items.DELETE("/:id", middleware.RequireAdmin(), h.DeleteItem)
		items.GET("/active", middleware.RequireAuth(), h.ListActiveItems)
		items.GET("/:id/unit-types", middleware.RequireAuth(), h.GetUnitTypes)
	}

	categories := router.Group("/api/categories")
	{
		categories.GET("", middleware.RequireAuth(), h.ListCategories)
		categories.POST("", middleware.RequireAdmin(), h.CreateCategory)
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// ListItems returns the paginated admin catalog with usage aggregates
// @Summary      List catalog items
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Name filter"
// @Param        page    query     int     false  "Page number (default 1)"
// @Success      200     {object}  response.Response{data=service.ItemListResponse}
// @Router       /api/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	list, err := h.itemService.ListItems(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// CreateItem adds a catalog item
// @Summary      Create item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        item  body      service.ItemInput  true  "Item fields"
// @Success      201   {object}  response.Response{data=model.Item}
// @Failure      409   {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item payload"))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem replaces a catalog item's fields
// @Summary      Update item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Item id"
// @Param        item  body      service.ItemInput  true  "Item fields"
// @Success      200   {object}  response.Response{data=model.Item}
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item payload"))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), id, input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an unreferenced catalog item
// @Summary      Delete item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response  "Item is referenced by requests"
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "item deleted"}))
}

// ListActiveItems returns the items offered on the request form
func (h *ItemHandler) ListActiveItems(c *gin.Context) {
	items, err := h.itemService.ListActiveItems(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// GetUnitTypes returns the unit options of one item
func (h *ItemHandler) GetUnitTypes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	units, err := h.itemService.GetUnitTypes(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// ListCategories returns active categories
func (h *ItemHandler) ListCategories(c *gin.Context) {
	categories, err := h.itemService.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// CreateCategory adds a category
func (h *ItemHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Category name is required"))
		return
	}

	category, err := h.itemService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}
