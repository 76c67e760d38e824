package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/models"
	"github.com/joshua-takyi/gigbook/internal/services"
)

// Register creates a band and echoes it back without the credential.
func Register(bs *services.BandService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload: "+err.Error())
			return
		}
		band, err := bs.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, band.Public())
	}
}

func Login(bs *services.BandService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.LoginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload: "+err.Error())
			return
		}
		session, err := bs.Login(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}

		maxAge := int(time.Until(session.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(
			helpers.AccessTokenCookie,
			session.Token,
			maxAge,
			"/",
			"", // let Gin pick current domain
			secureCookies,
			true,
		)
		c.JSON(http.StatusOK, session)
	}
}

func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(helpers.AccessTokenCookie, "", -1, "/", "", secureCookies, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

// Me returns the band behind the caller's token.
func Me(bs *services.BandService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := owner(c)
		if !ok {
			return
		}
		band, err := bs.Profile(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, band.Public())
	}
}
