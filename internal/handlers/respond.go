package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/gigbook/internal/middleware"
	"github.com/joshua-takyi/gigbook/internal/models"
)

// respondError maps the service error taxonomy onto HTTP. Anything it does
// not recognise is handed to the ErrorHandler middleware as an internal error.
func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, models.ValidationResponse(ve))
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse("gig not found"))
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(models.ErrConflict.Error()))
	default:
		_ = c.Error(err)
	}
}

func owner(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.OwnerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
	}
	return id, ok
}

// gigID parses the :id path parameter. A malformed id cannot name any gig, so
// it is answered as not found.
func gigID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse("gig not found"))
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse(msg))
}
