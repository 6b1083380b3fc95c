package handlers

import (
	"net/http"

	"github.com/bobmcallan/github-mcp/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger    *common.Logger
	toolCount int
}

// NewHealthHandler creates a new health handler reporting toolCount
// registered tools.
func NewHealthHandler(logger *common.Logger, toolCount int) *HealthHandler {
	return &HealthHandler{logger: logger, toolCount: toolCount}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"tools":  h.toolCount,
	})
}
