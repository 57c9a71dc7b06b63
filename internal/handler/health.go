package handler

import (
	"net/http"
	"time"

	natsclient "github.com/scholarly-ai/paper-agent/internal/nats"
	"github.com/scholarly-ai/paper-agent/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	natsClient *natsclient.Client
	collab     service.Collaborator
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(natsClient *natsclient.Client, collab service.Collaborator) *HealthHandler {
	return &HealthHandler{natsClient: natsClient, collab: collab}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := h.collab.Names()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"timestamp":         time.Now().Format(time.RFC3339),
		"ai_services":       services,
		"ai_services_count": len(services),
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// The event stream is optional; only a configured-but-disconnected
	// broker makes the service not ready.
	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
