package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scholarly-ai/paper-agent/internal/middleware"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/prompt"
	"github.com/scholarly-ai/paper-agent/internal/service"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// SessionHandler handles session lifecycle endpoints.
type SessionHandler struct {
	sessions *service.SessionService
	logger   *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: log}
}

// Start handles POST /paper/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.StartPaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Authenticated requests take the user from the token, not the body.
	if uid := middleware.GetUserID(ctx); uid != "" {
		req.UserID = uid
	}

	if err := middleware.ValidateTitle(req.Title); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.sessions.Create(ctx, req.UserID, req.Title, req.CollectedInfo, req.SkipConversation)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := model.StartPaperResponse{
		SessionID: session.ID,
		Stage:     session.Context.CurrentStage,
	}
	if !req.SkipConversation {
		resp.Message = prompt.StageQuestion(model.StageInitial)
	}

	writeData(w, http.StatusCreated, resp)
}

// List handles GET /paper/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}

	summaries, err := h.sessions.List(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list sessions", logger.Err(err))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, summaries)
}

// Get handles GET /paper/session/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, model.SessionDetail{
		Session:      session,
		PaperContent: session.Context.PaperContent,
	})
}

// Delete handles DELETE /paper/session/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.sessions.Delete(ctx, sessionID); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, struct{}{})
}
