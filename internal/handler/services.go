package handler

import (
	"net/http"

	"github.com/scholarly-ai/paper-agent/internal/service"
)

// ServicesHandler reports the available AI services.
type ServicesHandler struct {
	collab service.Collaborator
}

// NewServicesHandler creates a new services handler.
func NewServicesHandler(collab service.Collaborator) *ServicesHandler {
	return &ServicesHandler{collab: collab}
}

// servicesResponse lists the configured AI service names.
type servicesResponse struct {
	Success  bool     `json:"success"`
	Services []string `json:"services"`
}

// List handles GET /services
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.collab.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, servicesResponse{Success: true, Services: names})
}
