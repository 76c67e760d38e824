package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gigbook/internal/calendar"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/middleware"
	"github.com/joshua-takyi/gigbook/internal/services"
)

// Calendar renders the caller's gigs as a month grid, or a single week with
// view=week. date picks the reference day and defaults to today.
func Calendar(gs *services.GigService, builder *calendar.Builder) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, ok := owner(c)
		if !ok {
			return
		}

		loc := gs.Location()
		ref := time.Now().In(loc)
		if builder.Now != nil {
			ref = builder.Now().In(loc)
		}
		if raw := c.Query("date"); raw != "" {
			d, err := time.ParseInLocation(helpers.DateLayout, raw, loc)
			if err != nil {
				badRequest(c, "date must be formatted as YYYY-MM-DD")
				return
			}
			ref = d
		}

		gigs, err := gs.List(c.Request.Context(), band)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, builder.Build(ref, calendar.ParseView(c.Query("view")), gigs))
	}
}

func CalendarICS(gs *services.GigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, ok := owner(c)
		if !ok {
			return
		}
		gigs, err := gs.List(c.Request.Context(), band)
		if err != nil {
			respondError(c, err)
			return
		}

		name := "Gigs"
		if v, ok := c.Get(middleware.ClaimsKey); ok {
			if claims, ok := v.(*helpers.Claims); ok && claims.Name != "" {
				name = claims.Name + " gigs"
			}
		}

		c.Header("Content-Disposition", `attachment; filename="gigs.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.ExportICS(gigs, name)))
	}
}
