package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/risk"
)

// BundleStatus is the view of the model loader the operational endpoints
// need.
type BundleStatus interface {
	Status() (loaded bool, version string, err error)
	Reload() (*risk.Bundle, error)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	bundles BundleStatus
	db      Pinger
}

// NewHealthHandler builds the health endpoint. db is nil when the service
// runs without persistence.
func NewHealthHandler(bundles BundleStatus, db Pinger) *HealthHandler {
	return &HealthHandler{bundles: bundles, db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "healthy"}

	loaded, version, err := h.bundles.Status()
	switch {
	case err != nil:
		status = http.StatusServiceUnavailable
		body["model"] = "failed"
		body["model_error"] = err.Error()
	case loaded:
		body["model"] = "loaded"
		body["model_version"] = version
	default:
		body["model"] = "pending"
	}

	switch {
	case h.db == nil:
		body["database"] = "disabled"
	case h.db.Ping(c.Request.Context()) != nil:
		status = http.StatusServiceUnavailable
		body["database"] = "disconnected"
	default:
		body["database"] = "connected"
	}

	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	c.JSON(status, body)
}
