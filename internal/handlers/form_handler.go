package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gigbook/internal/forms"
	"github.com/joshua-takyi/gigbook/internal/geocode"
	"github.com/joshua-takyi/gigbook/internal/middleware"
	"github.com/joshua-takyi/gigbook/internal/models"
	"github.com/joshua-takyi/gigbook/internal/services"
)

// geocodeField asks the form to resolve the typed location before submitting.
const geocodeField = "geocode"

// GigFormDraft returns the edit draft seeded from a stored gig.
func GigFormDraft(gs *services.GigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, ok := owner(c)
		if !ok {
			return
		}
		id, ok := gigID(c)
		if !ok {
			return
		}
		gig, err := gs.Get(c.Request.Context(), band, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, forms.EditGigForm(gig, gs.Location()).Draft())
	}
}

// SubmitGigForm handles urlencoded form posts. Without an :id it creates a
// gig; with one it edits that gig.
func SubmitGigForm(gs *services.GigService, g geocode.Geocoder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, ok := owner(c)
		if !ok {
			return
		}
		if err := c.Request.ParseForm(); err != nil {
			badRequest(c, "invalid form body")
			return
		}

		form := forms.NewGigForm(gs.Location())
		status := http.StatusCreated
		if c.Param("id") != "" {
			id, ok := gigID(c)
			if !ok {
				return
			}
			gig, err := gs.Get(c.Request.Context(), band, id)
			if err != nil {
				respondError(c, err)
				return
			}
			form = forms.EditGigForm(gig, gs.Location())
			status = http.StatusOK
		}

		form.Apply(c.Request.PostForm)
		if wantsGeocode(c) {
			if _, err := form.SearchLocation(c.Request.Context(), g); err != nil {
				logger.Warn("Geocoding degraded to text only",
					"request_id", c.GetString(middleware.RequestIDKey),
					"error", err,
				)
			}
		}

		gig, err := form.Submit(c.Request.Context(), gs, band)
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			// hand the draft back so the form can be shown again as submitted
			resp := models.ValidationResponse(ve)
			resp.Data = form.Draft()
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(status, gig)
	}
}

func wantsGeocode(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.Request.PostForm.Get(geocodeField))
	return err == nil && v
}
