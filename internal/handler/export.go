package handler

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scholarly-ai/paper-agent/internal/middleware"
	"github.com/scholarly-ai/paper-agent/internal/service"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// ExportHandler handles the paper download endpoint.
type ExportHandler struct {
	exporter *service.Exporter
	logger   *logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exporter *service.Exporter, log *logger.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, logger: log}
}

// Export handles GET /paper/export/{id}?format={markdown|text}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")
	format := r.URL.Query().Get("format")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, err)
		return
	}

	data, filename, contentType, err := h.exporter.Export(ctx, sessionID, format)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	// FormatMediaType falls back to the RFC 5987 filename* form for
	// non-ASCII filenames.
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
