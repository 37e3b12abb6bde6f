package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

const userKey = "user"

// authenticate exchanges the bearer token for a user, creating it on first sign-in.
func (h *handlers) authenticate(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))

	identity, err := h.Verifier.Exchange(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user, err := h.Users.SignIn(c.Request.Context(), identity.UserID, identity.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Set(userKey, user)
	c.Next()
}

func requireAdmin(c *gin.Context) {
	user := currentUser(c)
	if !user.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin role required"})
		return
	}

	c.Next()
}

func currentUser(c *gin.Context) model.User {
	user, _ := c.MustGet(userKey).(model.User)
	return user
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
