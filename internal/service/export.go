package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
	"github.com/scholarly-ai/paper-agent/pkg/metrics"
)

// Export formats.
const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Exporter is the export encoder: it serializes a session's content store
// into a downloadable byte stream. Missing sections are omitted, never
// rendered as empty headers, and the section order is always the fixed
// table order regardless of generation order.
type Exporter struct {
	sessions *SessionService
	logger   *logger.Logger
}

// NewExporter creates a new export encoder.
func NewExporter(sessions *SessionService, log *logger.Logger) *Exporter {
	return &Exporter{sessions: sessions, logger: log}
}

// Export renders the session's paper in the requested format and returns
// the bytes, a suggested filename, and the content type.
func (e *Exporter) Export(ctx context.Context, sessionID, format string) (data []byte, filename, contentType string, err error) {
	session, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, "", "", err
	}

	content := session.Context.PaperContent
	if content.Count() == 0 {
		return nil, "", "", fmt.Errorf("%w: session %s has no generated sections", apperr.ErrEmptyContent, sessionID)
	}

	stamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_%s", sanitizeFilename(session.Title), stamp)

	var rendered string
	switch format {
	case FormatMarkdown, "":
		rendered = renderMarkdown(session.Title, content)
		filename = base + ".md"
		contentType = "text/markdown; charset=utf-8"
		format = FormatMarkdown
	case FormatText:
		rendered = renderText(session.Title, content)
		filename = base + ".txt"
		contentType = "text/plain; charset=utf-8"
	default:
		return nil, "", "", apperr.InvalidInput("unknown export format %q", format)
	}

	metrics.ExportsTotal.WithLabelValues(format).Inc()
	e.logger.Info("paper exported",
		logger.String("session_id", sessionID),
		logger.String("format", format),
	)

	return []byte(rendered), filename, contentType, nil
}

func renderMarkdown(title string, content model.PaperContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n")

	for _, entry := range model.Sections {
		if !content.Has(entry.Key) {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", entry.Title)
		b.WriteString(content[entry.Key])
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderText(title string, content model.PaperContent) string {
	rule := strings.Repeat("=", 60)
	sectionRule := strings.Repeat("-", 60)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n\n")

	for _, entry := range model.Sections {
		if !content.Has(entry.Key) {
			continue
		}
		b.WriteString(entry.Title + "\n")
		b.WriteString(sectionRule + "\n\n")
		b.WriteString(content[entry.Key])
		b.WriteString("\n\n")
	}
	return b.String()
}

// sanitizeFilename keeps the suggested filename safe for content
// disposition and common filesystems.
func sanitizeFilename(title string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		case r > 127:
			// Non-ASCII titles pass through; HTTP encoding is the
			// handler's concern.
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(title))
	if mapped == "" {
		return "paper"
	}
	return mapped
}
