package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarly-ai/paper-agent/internal/llm"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/prompt"
	"github.com/scholarly-ai/paper-agent/internal/service"
	"github.com/scholarly-ai/paper-agent/internal/store"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// stubCollab answers extraction calls with an empty object and every
// other call with canned text.
type stubCollab struct{}

func (stubCollab) Chat(ctx context.Context, svc string, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if req.System == prompt.ExtractionSystem {
		return &llm.CompletionResponse{Content: "{}"}, nil
	}
	return &llm.CompletionResponse{Content: "stub text"}, nil
}

func (stubCollab) Names() []string { return []string{"stub"} }

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	log := logger.NewNop()
	st, err := store.NewFileStore(t.TempDir(), log)
	require.NoError(t, err)

	collab := stubCollab{}
	sessions := service.NewSessionService(st, nil, log)
	generator := service.NewGenerator(sessions, collab, 30*time.Second, 4096, log)
	controller := service.NewStageController(sessions, generator, collab, 5, 15, log)
	exporter := service.NewExporter(sessions, log)

	sessionHandler := NewSessionHandler(sessions, log)
	messageHandler := NewMessageHandler(controller, log)
	generateHandler := NewGenerateHandler(generator, log)
	exportHandler := NewExportHandler(exporter, log)
	servicesHandler := NewServicesHandler(collab)
	healthHandler := NewHealthHandler(nil, collab)

	r := chi.NewRouter()
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/services", servicesHandler.List)
	r.Route("/paper", func(r chi.Router) {
		r.Post("/start", sessionHandler.Start)
		r.Get("/sessions", sessionHandler.List)
		r.Route("/session/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Delete)
		})
		r.Post("/message", messageHandler.Send)
		r.Post("/generate", generateHandler.Generate)
		r.Post("/regenerate", generateHandler.Regenerate)
		r.Get("/export/{id}", exportHandler.Export)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (bool, map[string]any, string) {
	t.Helper()
	var env struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Success, env.Data, env.Error
}

func TestStartReturnsGuidance(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{
		"title": "A Study of Caches",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	ok, data, _ := decodeEnvelope(t, w)
	assert.True(t, ok)
	assert.NotEmpty(t, data["session_id"])
	assert.Equal(t, string(model.StageInitial), data["stage"])
	assert.Contains(t, data["message"], "Research topic")
}

func TestStartSkipConversation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{
		"title":             "Direct",
		"skip_conversation": true,
		"collected_info":    map[string]string{"research_topic": "caching"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	ok, data, _ := decodeEnvelope(t, w)
	assert.True(t, ok)
	assert.Equal(t, string(model.StageGenerating), data["stage"])
	_, hasMessage := data["message"]
	assert.False(t, hasMessage)
}

func TestStartRejectsEmptyTitle(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{"title": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	ok, _, errMsg := decodeEnvelope(t, w)
	assert.False(t, ok)
	assert.NotEmpty(t, errMsg)
}

func TestStartRejectsOversizedTitle(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{
		"title": strings.Repeat("t", 257),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/paper/session/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/paper/session/11111111-1111-7111-8111-111111111111", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageAdvancesStage(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{"title": "Flow"})
	require.Equal(t, http.StatusCreated, w.Code)
	_, data, _ := decodeEnvelope(t, w)
	sessionID := data["session_id"].(string)

	w = doJSON(t, r, http.MethodPost, "/paper/message", map[string]any{
		"session_id": sessionID,
		"message":    "I study cache coherence",
	})
	require.Equal(t, http.StatusOK, w.Code)

	ok, data, _ := decodeEnvelope(t, w)
	assert.True(t, ok)
	assert.Equal(t, string(model.StageResearchBackground), data["stage"])
	assert.Equal(t, float64(1), data["round"])
}

func TestGenerateConflictBeforeGeneratingStage(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{"title": "Early"})
	_, data, _ := decodeEnvelope(t, w)
	sessionID := data["session_id"].(string)

	w = doJSON(t, r, http.MethodPost, "/paper/generate", map[string]any{"session_id": sessionID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDirectGenerateAndExport(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{
		"title":             "Full Run",
		"skip_conversation": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	_, data, _ := decodeEnvelope(t, w)
	sessionID := data["session_id"].(string)

	w = doJSON(t, r, http.MethodPost, "/paper/generate", map[string]any{"session_id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)
	ok, data, _ := decodeEnvelope(t, w)
	assert.True(t, ok)
	content := data["paper_content"].(map[string]any)
	assert.Len(t, content, len(model.Sections))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/paper/export/%s?format=markdown", sessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(w.Body.String(), "# Full Run"))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/paper/export/%s?format=text", sessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Full Run")
}

func TestExportNonASCIIFilename(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{
		"title":             "纳米材料研究",
		"skip_conversation": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	_, data, _ := decodeEnvelope(t, w)
	sessionID := data["session_id"].(string)

	w = doJSON(t, r, http.MethodPost, "/paper/generate", map[string]any{"session_id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/paper/export/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "filename*=utf-8''")
	assert.Contains(t, disposition, "%E7%BA%B3") // first byte run of 纳
	assert.NotContains(t, disposition, `\u`)
}

func TestExportEmptyIsNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{"title": "Empty"})
	_, data, _ := decodeEnvelope(t, w)
	sessionID := data["session_id"].(string)

	w = doJSON(t, r, http.MethodGet, "/paper/export/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/paper/start", map[string]any{"title": "Doomed"})
	_, data, _ := decodeEnvelope(t, w)
	sessionID := data["session_id"].(string)

	w = doJSON(t, r, http.MethodDelete, "/paper/session/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/paper/session/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServicesEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/services", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool     `json:"success"`
		Services []string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"stub"}, resp.Services)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
