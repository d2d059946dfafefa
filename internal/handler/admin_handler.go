package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/middleware"
)

type AdminHandler struct {
	bundles BundleStatus
}

func NewAdminHandler(bundles BundleStatus) *AdminHandler {
	return &AdminHandler{bundles: bundles}
}

// ReloadBundle reloads the model bundle from disk. A failed reload leaves
// the previously loaded bundle in service.
func (h *AdminHandler) ReloadBundle(c *gin.Context) {
	b, err := h.bundles.Reload()
	if err != nil {
		status, resp := middleware.MapError(err)
		if _, version, _ := h.bundles.Status(); version != "" {
			resp.Details += "; still serving " + version
		}
		c.JSON(status, resp)
		return
	}

	log.Info().Str("version", b.Version).Msg("model bundle reloaded")
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "model_version": b.Version})
}
