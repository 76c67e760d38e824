package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gigbook/internal/container"
	"github.com/joshua-takyi/gigbook/internal/handlers"
	"github.com/joshua-takyi/gigbook/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	secureCookies := cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": "gigbook-api",
			"store":   cfg.StoreDriver,
		})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register(container.BandService))
		auth.POST("/login", handlers.Login(container.BandService, secureCookies))
		auth.POST("/logout", handlers.Logout(secureCookies))
	}

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Tokens, container.Logger))

	protected.GET("/auth/me", handlers.Me(container.BandService))

	gigs := protected.Group("/gigs")
	{
		gigs.GET("", handlers.ListGigs(container.GigService))
		gigs.POST("", handlers.CreateGig(container.GigService))
		gigs.POST("/form", handlers.SubmitGigForm(container.GigService, container.Geocoder, container.Logger))
		gigs.GET("/:id", handlers.GetGig(container.GigService))
		gigs.PUT("/:id", handlers.UpdateGig(container.GigService))
		gigs.DELETE("/:id", handlers.DeleteGig(container.GigService))
		gigs.GET("/:id/map", handlers.GigMap(container.GigService, container.Geocoder, container.Logger))
		gigs.GET("/:id/form", handlers.GigFormDraft(container.GigService))
		gigs.POST("/:id/form", handlers.SubmitGigForm(container.GigService, container.Geocoder, container.Logger))
	}

	protected.GET("/calendar", handlers.Calendar(container.GigService, container.Calendar))
	protected.GET("/calendar.ics", handlers.CalendarICS(container.GigService))

	protected.GET("/geocode", handlers.Geocode(container.Geocoder, container.Logger))
	protected.GET("/geocode/reverse", handlers.ReverseGeocode(container.Geocoder, container.Logger))

	return r
}
