// Package api exposes the services over HTTP with gin.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EPFL-Life/life-sub001/internal/auth"
	"github.com/EPFL-Life/life-sub001/internal/model"
	"github.com/EPFL-Life/life-sub001/internal/service"
)

// Geocoder resolves a free-text query to candidate locations.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]model.Location, error)
}

// Deps holds what the handlers need.
type Deps struct {
	Events         service.EventService
	Associations   service.AssociationService
	Users          service.UserService
	Feed           service.FeedService
	Verifier       *auth.Verifier
	Geocoder       Geocoder
	Limiter        *RateLimiter
	// TrustedProxies lists the addresses or CIDRs allowed to set X-Forwarded-For.
	// Empty trusts none, so the rate limiter keys on the peer address.
	TrustedProxies []string
}

type handlers struct {
	Deps
}

// NewRouter registers every route on a new gin engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	h := &handlers{Deps: d}

	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(gin.Recovery(), requestLogger())

	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware(func(c *gin.Context) string { return c.ClientIP() }))
	}

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/")
	authed.Use(h.authenticate)

	authed.GET("/events", h.listEvents)
	authed.GET("/events/:id", h.getEvent)
	authed.GET("/associations", h.listAssociations)
	authed.GET("/associations/:id", h.getAssociation)
	authed.GET("/associations/:id/events", h.associationEvents)
	authed.GET("/users/:id", h.getUserProfile)
	authed.GET("/geocode", h.geocode)

	admin := authed.Group("/")
	admin.Use(requireAdmin)

	admin.POST("/events", h.createEvent)
	admin.PUT("/events/:id", h.updateEvent)
	admin.DELETE("/events/:id", h.deleteEvent)
	admin.POST("/associations", h.createAssociation)
	admin.PUT("/associations/:id", h.updateAssociation)
	admin.DELETE("/associations/:id", h.deleteAssociation)

	me := authed.Group("/me")
	me.GET("", h.me)
	me.PUT("/settings", h.updateSettings)
	me.POST("/following/:userId", h.follow)
	me.DELETE("/following/:userId", h.unfollow)
	me.POST("/subscriptions/:associationId", h.subscribe)
	me.DELETE("/subscriptions/:associationId", h.unsubscribe)
	me.POST("/enrollments/:eventId", h.enroll)
	me.DELETE("/enrollments/:eventId", h.unenroll)
	me.GET("/feed", h.homeFeed)
	me.GET("/calendar", h.calendar)

	return r, nil
}

// GET /health
func (*handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
