package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-reservation-backend/internal/auth"
	"parking-reservation-backend/internal/cache"
	"parking-reservation-backend/internal/jobs"
	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/refdata"
	"parking-reservation-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	cache      *cache.Keyed
	invalidate *cache.Registry
	auth       *auth.Service
	queue      *jobs.Queue
	mail       mailer.Sender
	refdata    *refdata.Table
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, c *cache.Keyed, authSvc *auth.Service, queue *jobs.Queue, mail mailer.Sender, ref *refdata.Table) *Handler {
	return &Handler{
		store:      s,
		cache:      c,
		invalidate: cache.NewRegistry(c),
		auth:       authSvc,
		queue:      queue,
		mail:       mail,
		refdata:    ref,
	}
}

// respondError maps store errors onto HTTP statuses. Unexpected errors are
// logged with their cause and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "an internal error occurred"})
	}
}
