package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// GET /associations
func (h *handlers) listAssociations(c *gin.Context) {
	associations, err := h.Associations.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, associations)
}

// GET /associations/:id
func (h *handlers) getAssociation(c *gin.Context) {
	association, err := h.Associations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, association)
}

// GET /associations/:id/events
func (h *handlers) associationEvents(c *gin.Context) {
	events, err := h.Associations.Events(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// POST /associations
func (h *handlers) createAssociation(c *gin.Context) {
	var association model.Association
	if err := c.ShouldBindJSON(&association); err != nil {
		badRequest(c, "could not parse request data")
		return
	}

	created, err := h.Associations.Create(c.Request.Context(), association)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// PUT /associations/:id
func (h *handlers) updateAssociation(c *gin.Context) {
	var association model.Association
	if err := c.ShouldBindJSON(&association); err != nil {
		badRequest(c, "could not parse request data")
		return
	}

	updated, err := h.Associations.Update(c.Request.Context(), c.Param("id"), association)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DELETE /associations/:id
func (h *handlers) deleteAssociation(c *gin.Context) {
	if err := h.Associations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
