package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// GET /users/:id
func (h *handlers) getUserProfile(c *gin.Context) {
	profile, err := h.Users.PublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GET /me
func (*handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// PUT /me/settings
func (h *handlers) updateSettings(c *gin.Context) {
	var settings model.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, "could not parse request data")
		return
	}

	user, err := h.Users.UpdateSettings(c.Request.Context(), currentUser(c).ID, settings)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type relationFunc func(ctx context.Context, userID, targetID string) (model.User, error)

// relation adapts a user-to-target mutation to a handler reading the target from param.
func relation(param string, apply relationFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := apply(c.Request.Context(), currentUser(c).ID, c.Param(param))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func (h *handlers) follow(c *gin.Context)      { relation("userId", h.Users.Follow)(c) }
func (h *handlers) unfollow(c *gin.Context)    { relation("userId", h.Users.Unfollow)(c) }
func (h *handlers) subscribe(c *gin.Context)   { relation("associationId", h.Users.Subscribe)(c) }
func (h *handlers) unsubscribe(c *gin.Context) { relation("associationId", h.Users.Unsubscribe)(c) }
func (h *handlers) enroll(c *gin.Context)      { relation("eventId", h.Users.Enroll)(c) }
func (h *handlers) unenroll(c *gin.Context)    { relation("eventId", h.Users.Unenroll)(c) }

// GET /me/feed
func (h *handlers) homeFeed(c *gin.Context) {
	events, err := h.Feed.HomeFeed(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GET /me/calendar
func (h *handlers) calendar(c *gin.Context) {
	events, err := h.Feed.Calendar(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GET /geocode?q=
func (h *handlers) geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, "q is required")
		return
	}

	locations, err := h.Geocoder.Search(c.Request.Context(), query)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, locations)
}
