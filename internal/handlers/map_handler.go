package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/gigbook/internal/geocode"
	"github.com/joshua-takyi/gigbook/internal/middleware"
	"github.com/joshua-takyi/gigbook/internal/models"
	"github.com/joshua-takyi/gigbook/internal/services"
)

type gigMapView struct {
	GigID       uuid.UUID           `json:"gigId"`
	Title       string              `json:"title"`
	Location    string              `json:"location"`
	Coordinates *models.Coordinates `json:"coordinates"`
	// Approximate is set when the pin came from a lookup of the location text
	// rather than from the stored gig.
	Approximate   bool   `json:"approximate"`
	DirectionsURL string `json:"directionsUrl,omitempty"`
}

type geocodeView struct {
	Result   *geocode.Result `json:"result"`
	Degraded bool            `json:"degraded"`
}

// GigMap returns what a map needs to show one gig. Gigs stored as text only
// are looked up on the fly; when that fails the view stays text-only.
func GigMap(gs *services.GigService, g geocode.Geocoder, logger *slog.Logger) gin.HandlerFunc {
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

		view := gigMapView{
			GigID:       gig.ID,
			Title:       gig.Title,
			Location:    gig.Location,
			Coordinates: gig.Coordinates(),
		}
		if view.Coordinates == nil {
			res, err := g.Forward(c.Request.Context(), gig.Location)
			if err != nil {
				logger.Warn("Geocoding degraded to text only",
					"request_id", c.GetString(middleware.RequestIDKey),
					"gig_id", gig.ID,
					"error", err,
				)
			} else if res != nil {
				view.Coordinates = &models.Coordinates{Latitude: res.Latitude, Longitude: res.Longitude}
				view.Approximate = true
			}
		}

		from, _ := queryPoint(c, "fromLat", "fromLng")
		platform := geocode.PlatformFromUserAgent(c.Request.UserAgent())
		view.DirectionsURL = geocode.DirectionsURL(platform, from, view.Coordinates, gig.Location)

		c.JSON(http.StatusOK, view)
	}
}

func Geocode(g geocode.Geocoder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			badRequest(c, "q is required")
			return
		}
		res, err := g.Forward(c.Request.Context(), q)
		respondGeocode(c, logger, res, err)
	}
}

func ReverseGeocode(g geocode.Geocoder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		point, ok := queryPoint(c, "lat", "lng")
		if !ok {
			badRequest(c, "lat and lng must be valid coordinates")
			return
		}
		res, err := g.Reverse(c.Request.Context(), point.Latitude, point.Longitude)
		respondGeocode(c, logger, res, err)
	}
}

func respondGeocode(c *gin.Context, logger *slog.Logger, res *geocode.Result, err error) {
	if err != nil {
		if !geocode.IsDegraded(err) {
			_ = c.Error(err)
			return
		}
		logger.Warn("Geocoding degraded to text only",
			"request_id", c.GetString(middleware.RequestIDKey),
			"error", err,
		)
		c.JSON(http.StatusOK, geocodeView{Degraded: true})
		return
	}
	c.JSON(http.StatusOK, geocodeView{Result: res})
}

func queryPoint(c *gin.Context, latKey, lngKey string) (*models.Coordinates, bool) {
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(c.Query(lngKey), 64)
	if err != nil {
		return nil, false
	}
	if geocode.ValidatePoint(lat, lng) != nil {
		return nil, false
	}
	return &models.Coordinates{Latitude: lat, Longitude: lng}, true
}
