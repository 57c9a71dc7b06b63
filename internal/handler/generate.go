package handler

import (
	"encoding/json"
	"net/http"

	"github.com/scholarly-ai/paper-agent/internal/middleware"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/service"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// GenerateHandler handles the generation endpoints.
type GenerateHandler struct {
	generator *service.Generator
	logger    *logger.Logger
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(generator *service.Generator, log *logger.Logger) *GenerateHandler {
	return &GenerateHandler{generator: generator, logger: log}
}

// Generate handles POST /paper/generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateSessionID(req.SessionID); err != nil {
		writeError(w, err)
		return
	}

	content, err := h.generator.Generate(ctx, req.SessionID)
	if err != nil {
		h.logger.Error("paper generation failed",
			logger.String("session_id", req.SessionID), logger.Err(err))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, model.GenerateResponse{
		SessionID:    req.SessionID,
		PaperContent: content,
	})
}

// Regenerate handles POST /paper/regenerate
func (h *GenerateHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateSessionID(req.SessionID); err != nil {
		writeError(w, err)
		return
	}

	content, err := h.generator.RegenerateSection(ctx, req.SessionID, req.Section, req.Requirements)
	if err != nil {
		h.logger.Error("section regeneration failed",
			logger.String("session_id", req.SessionID),
			logger.String("section", string(req.Section)),
			logger.Err(err))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, model.RegenerateResponse{
		SessionID: req.SessionID,
		Section:   req.Section,
		Content:   content,
	})
}
