package handler

import (
	"net/http"

	"procurement_backend/internal/middleware"
	"procurement_backend/internal/service"
	"procurement_backend/pkg/pagination"
	"procurement_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RequestHandler struct {
	requestService service.RequestService
	logger         *zap.Logger
}

func NewRequestHandler(requestService service.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requestService: requestService, logger: logger}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	requests.Use(middleware.RequireAuth())
	{
		requests.GET("", h.ListRequests)
		requests.POST("", h.CreateRequest)
		requests.GET("/:id", h.GetRequest)
		requests.PUT("/:id/status", h.UpdateStatus)
		requests.DELETE("/:id", h.DeleteRequest)
	}
}

// ListRequests returns one page of requests plus the status summary
// @Summary      List requests
// @Description  Office heads see their own office only; admins can filter by office
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        office_id  query     string  false  "Office filter (admin only)"
// @Param        status     query     string  false  "pending, approved or rejected"
// @Param        date_from  query     string  false  "YYYY-MM-DD"
// @Param        date_to    query     string  false  "YYYY-MM-DD"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 20)"
// @Success      200        {object}  response.Response{data=service.RequestListResponse}
// @Router       /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	params := pagination.Parse(c)

	list, err := h.requestService.ListRequests(c.Request.Context(), actor, service.ListRequestsInput{
		OfficeID: c.Query("office_id"),
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// CreateRequest submits a bulk request with its line items
// @Summary      Create request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.CreateRequestInput  true  "Line items"
// @Success      201      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response  "No valid line items"
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var input service.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), actor, input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// GetRequest returns one request with its line items
// @Summary      Get request
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// UpdateStatus moves a request between states, gated by the admin's password
// @Summary      Update request status
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path      string                     true  "Request id"
// @Param        status  body      service.UpdateStatusInput  true  "New status plus acting password"
// @Success      200     {object}  response.Response{data=model.Request}
// @Failure      401     {object}  response.Response  "Password verification failed"
// @Router       /api/requests/{id}/status [put]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Status and password are required"))
		return
	}

	request, err := h.requestService.UpdateStatus(c.Request.Context(), actor, id, input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// DeleteRequest removes a request and its line items
// @Summary      Delete request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Request id"
// @Param        body  body      object  true  "Acting password"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response  "Password verification failed"
// @Router       /api/requests/{id} [delete]
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Password is required"))
		return
	}

	if err := h.requestService.DeleteRequest(c.Request.Context(), actor, id, body.Password); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "request deleted"}))
}
