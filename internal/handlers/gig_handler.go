package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gigbook/internal/models"
	"github.com/joshua-takyi/gigbook/internal/services"
)

func ListGigs(gs *services.GigService) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, gigs)
	}
}

func CreateGig(gs *services.GigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, ok := owner(c)
		if !ok {
			return
		}
		var in models.GigInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload: "+err.Error())
			return
		}
		gig, err := gs.Create(c.Request.Context(), band, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gig)
	}
}

func GetGig(gs *services.GigService) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, gig)
	}
}

func UpdateGig(gs *services.GigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, ok := owner(c)
		if !ok {
			return
		}
		id, ok := gigID(c)
		if !ok {
			return
		}
		var in models.GigInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload: "+err.Error())
			return
		}
		gig, err := gs.Update(c.Request.Context(), band, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gig)
	}
}

func DeleteGig(gs *services.GigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		band, ok := owner(c)
		if !ok {
			return
		}
		id, ok := gigID(c)
		if !ok {
			return
		}
		if err := gs.Delete(c.Request.Context(), band, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Gig deleted successfully"))
	}
}
