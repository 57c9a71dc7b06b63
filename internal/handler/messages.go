package handler

import (
	"encoding/json"
	"net/http"

	"github.com/scholarly-ai/paper-agent/internal/middleware"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/service"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// MessageHandler handles the conversational turn endpoint.
type MessageHandler struct {
	controller *service.StageController
	logger     *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(controller *service.StageController, log *logger.Logger) *MessageHandler {
	return &MessageHandler{controller: controller, logger: log}
}

// Send handles POST /paper/message
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateSessionID(req.SessionID); err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.controller.Advance(ctx, req.SessionID, req.Message)
	if err != nil {
		h.logger.Error("failed to process message",
			logger.String("session_id", req.SessionID), logger.Err(err))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, resp)
}
