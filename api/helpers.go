package api

import (
	"errors"
	"net/http"

	"paperroom/access-api/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// abortError maps the service error taxonomy onto status-coded responses.
// Unknown verification codes and never-issued ones share a message on
// purpose; callers can't probe which codes exist.
func abortError(c *gin.Context, err error) {
	requestID := c.MustGet("requestID").(string)

	status := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status, msg = http.StatusForbidden, "Invalid inputs"
	case errors.Is(err, apperr.ErrNotFound):
		status, msg = http.StatusNotFound, "Object not found"
	case errors.Is(err, apperr.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Incorrect password"
	case errors.Is(err, apperr.ErrExpired):
		status, msg = http.StatusUnauthorized, "This content is expired"
	case errors.Is(err, apperr.ErrArchived):
		status, msg = http.StatusGone, "This content is no longer available"
	case errors.Is(err, apperr.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "Unauthorized access"
	default:
		zap.L().Error("Unhandled service error", zap.Error(err), zap.String("requestID", requestID))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": requestID,
	})
}
