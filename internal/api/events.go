package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// GET /events?tag=&association=
func (h *handlers) listEvents(c *gin.Context) {
	var (
		events []model.Event
		err    error
	)

	switch {
	case c.Query("association") != "":
		events, err = h.Events.ListByAssociation(c.Request.Context(), c.Query("association"))
	case c.Query("tag") != "":
		events, err = h.Events.ListByTag(c.Request.Context(), c.Query("tag"))
	default:
		events, err = h.Events.List(c.Request.Context())
	}

	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GET /events/:id
func (h *handlers) getEvent(c *gin.Context) {
	event, err := h.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// POST /events
func (h *handlers) createEvent(c *gin.Context) {
	var event model.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, "could not parse request data")
		return
	}

	created, err := h.Events.Create(c.Request.Context(), event)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// PUT /events/:id
func (h *handlers) updateEvent(c *gin.Context) {
	var event model.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, "could not parse request data")
		return
	}

	updated, err := h.Events.Update(c.Request.Context(), c.Param("id"), event)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DELETE /events/:id
func (h *handlers) deleteEvent(c *gin.Context) {
	if err := h.Events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
