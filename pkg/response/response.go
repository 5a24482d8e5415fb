package response

import (
	"errors"
	"net/http"

	custom_error "shopfloor/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, custom_error.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, custom_error.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, custom_error.ErrValidation),
		errors.Is(err, custom_error.ErrDuplicate),
		errors.Is(err, custom_error.ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the error payload. Client errors expose the domain message,
// server errors expose fallback with the cause in details.
func AbortWithError(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"error": fallback, "details": err.Error()})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
