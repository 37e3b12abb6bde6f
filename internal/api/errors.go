package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EPFL-Life/life-sub001/internal/auth"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

var validationErrors = []error{
	model.ErrMissingID,
	model.ErrIDMismatch,
	model.ErrInvalidLocation,
	model.ErrInvalidPrice,
	model.ErrInvalidCategory,
	model.ErrInvalidRole,
	model.ErrInvalidTitle,
	model.ErrInvalidName,
	model.ErrSelfFollow,
	model.ErrUnknownReference,
}

func statusOf(err error) int {
	switch {
	// Stored records that fail to decode are reported as absent.
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrUnparseable):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, auth.ErrSignInCancelled), errors.Is(err, auth.ErrSignInFailed):
		return http.StatusUnauthorized
	}

	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// abortWithError writes the JSON error body matching err and stops the chain.
func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message})
}
