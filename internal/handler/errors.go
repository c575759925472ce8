package handler

import (
	"errors"
	"net/http"

	"procurement_backend/internal/apperror"
	"procurement_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps a service error to its HTTP response. Storage failures
// are logged in full and collapse to a generic 500 so internals never leak.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr *apperror.ValidationError
		duplicateErr  *apperror.DuplicateError
		referencedErr *apperror.ReferencedError
	)

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Not found"))
	case errors.Is(err, apperror.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, apperror.ErrEmptyRequest):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, validationErr.Message))
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.As(err, &referencedErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}
