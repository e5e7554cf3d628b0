package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/queries"
	"hotelops/internal/domain/shared/apperr"
)

// writeError maps application errors onto HTTP statuses. Unclassified
// errors become a 500 with a generic message so internals never leak.
func writeError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, commands.ErrHandlerNotFound), errors.Is(err, queries.ErrHandlerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown operation"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
