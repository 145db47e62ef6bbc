package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datahealth/internal/errors"
	"datahealth/internal/logger"
)

// StatusFor maps an error code onto an HTTP status
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized
	case errors.CodeInvalidInput, errors.CodeUnsupportedFormat, errors.CodeConflict:
		return http.StatusBadRequest
	case errors.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"detail": ..., "code": ...} and aborts the chain
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Component("API").
			WithError(err).
			WithField("path", c.FullPath()).
			Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"detail": err.Error(),
		"code":   errors.GetCode(err),
	})
}
