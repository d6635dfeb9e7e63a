package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybooking/internal/domain"
)

// respondError maps the business error taxonomy onto HTTP statuses.
// Conflicts are distinguishable from missing resources so clients can
// render "someone else booked this" differently from a bad request.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
