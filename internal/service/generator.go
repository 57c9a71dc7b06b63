package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
	"github.com/scholarly-ai/paper-agent/internal/llm"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/prompt"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
	"github.com/scholarly-ai/paper-agent/pkg/metrics"
)

// Generator is the generation orchestrator: it fills the content store
// section by section through the collaborator. The pipeline is sequential
// and cumulative (later sections see earlier ones) and resumable (sections
// that already have text are never re-requested).
type Generator struct {
	sessions *SessionService
	collab   Collaborator
	logger   *logger.Logger

	sectionTimeout time.Duration
	maxTokens      int
}

// NewGenerator creates a new generation orchestrator.
func NewGenerator(sessions *SessionService, collab Collaborator, sectionTimeout time.Duration, maxTokens int, log *logger.Logger) *Generator {
	return &Generator{
		sessions:       sessions,
		collab:         collab,
		logger:         log,
		sectionTimeout: sectionTimeout,
		maxTokens:      maxTokens,
	}
}

// Generate runs the full pipeline for a session in the generating stage.
// On success all seven sections are populated and the session commits to
// stage=completed, status=completed atomically with the last section
// write. On failure, already-written sections are kept and the call is
// safe to retry.
func (g *Generator) Generate(ctx context.Context, sessionID string) (model.PaperContent, error) {
	session, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.StatusActive {
		return nil, apperr.InvalidState("session %s is %s", sessionID, session.Status)
	}
	if session.Context.CurrentStage != model.StageGenerating {
		return nil, apperr.InvalidState("session %s is in stage %s, not generating", sessionID, session.Context.CurrentStage)
	}

	metrics.GenerationsActive.Inc()
	defer metrics.GenerationsActive.Dec()

	log := g.logger.WithSession(session.ID, session.UserID)
	info := session.Context.CollectedInfo
	history := recentHistory(session)
	content := session.Context.PaperContent.Clone()

	for _, entry := range model.Sections {
		if content.Has(entry.Key) {
			// Resume path: keep the stored text untouched.
			continue
		}

		start := time.Now()
		text, err := g.generateSection(ctx, entry.Key, info, content, history, "")
		if err != nil {
			metrics.RecordSection(string(entry.Key), "error", time.Since(start).Seconds())
			g.publishFailure(ctx, session, entry.Key, err)
			return nil, apperr.Generation(err, "section %s", entry.Key)
		}
		metrics.RecordSection(string(entry.Key), "success", time.Since(start).Seconds())

		// The per-session lock is held only around this write, never
		// across the collaborator call, so reads are not blocked behind a
		// long-running generation.
		session, err = g.sessions.Update(ctx, sessionID, func(s *model.Session) error {
			if !s.Context.PaperContent.Has(entry.Key) {
				s.Context.PaperContent[entry.Key] = text
			}
			if s.Context.PaperContent.Complete() && s.Status == model.StatusActive {
				s.Context.CurrentStage = model.StageCompleted
				s.Status = model.StatusCompleted
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		content = session.Context.PaperContent.Clone()

		g.publishProgress(ctx, session, model.EventSectionGenerated, entry.Key)
		log.Info("section generated", logger.String("section", string(entry.Key)))
	}

	// A retry may find every section already written without having
	// performed the final write above; commit the completion here.
	if content.Complete() && session.Status == model.StatusActive {
		session, err = g.sessions.Update(ctx, sessionID, func(s *model.Session) error {
			if s.Context.PaperContent.Complete() && s.Status == model.StatusActive {
				s.Context.CurrentStage = model.StageCompleted
				s.Status = model.StatusCompleted
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		content = session.Context.PaperContent.Clone()
	}

	g.publishProgress(ctx, session, model.EventGenerationCompleted, "")
	log.Info("paper generation completed")

	return content, nil
}

// RegenerateSection rewrites one section, optionally honoring extra
// requirements. Valid also on completed sessions; status is unchanged.
func (g *Generator) RegenerateSection(ctx context.Context, sessionID string, section model.Section, requirements string) (string, error) {
	if !model.ValidSection(section) {
		return "", apperr.InvalidInput("unknown section %q", section)
	}

	session, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	text, err := g.generateSection(ctx, section, session.Context.CollectedInfo, session.Context.PaperContent, recentHistory(session), requirements)
	if err != nil {
		return "", apperr.Generation(err, "section %s", section)
	}

	if _, err := g.sessions.Update(ctx, sessionID, func(s *model.Session) error {
		s.Context.PaperContent[section] = text
		return nil
	}); err != nil {
		return "", err
	}

	g.publishProgress(ctx, session, model.EventSectionGenerated, section)
	return text, nil
}

// generateSection asks the collaborator for one section's text. The call
// is bounded by the section timeout; timeouts surface as errors, never as
// hangs.
func (g *Generator) generateSection(ctx context.Context, section model.Section, info map[string]string, prior model.PaperContent, history []llm.ChatMessage, requirements string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.sectionTimeout)
	defer cancel()

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: prompt.Section(section, info, prior, requirements),
	})

	resp, err := g.collab.Chat(ctx, "", &llm.CompletionRequest{
		System:      prompt.SystemRole,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", errors.New("collaborator returned empty text")
	}
	return text, nil
}

func (g *Generator) publishProgress(ctx context.Context, session *model.Session, eventType model.EventType, section model.Section) {
	if g.sessions.events == nil {
		return
	}
	_, err := g.sessions.events.Publish(ctx, &model.PaperEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: session.ID,
		UserID:    session.UserID,
		Type:      eventType,
		Stage:     session.Context.CurrentStage,
		Section:   section,
		CreatedAt: time.Now(),
	})
	if err != nil {
		g.logger.Warn("failed to publish event",
			logger.String("type", string(eventType)), logger.Err(err))
	}
}

func (g *Generator) publishFailure(ctx context.Context, session *model.Session, section model.Section, cause error) {
	if g.sessions.events == nil {
		return
	}
	_, err := g.sessions.events.Publish(ctx, &model.PaperEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: session.ID,
		UserID:    session.UserID,
		Type:      model.EventGenerationFailed,
		Stage:     session.Context.CurrentStage,
		Section:   section,
		Reason:    cause.Error(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		g.logger.Warn("failed to publish event", logger.Err(err))
	}
}
