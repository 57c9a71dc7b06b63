// Package service provides the business logic for the paper platform: the
// session ledger, the stage controller, the generation orchestrator, and
// the export encoder.
package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/store"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
	"github.com/scholarly-ai/paper-agent/pkg/metrics"
)

// EventSink receives paper lifecycle events. A nil sink disables
// publishing; event delivery is best-effort and never fails an operation.
type EventSink interface {
	Publish(ctx context.Context, event *model.PaperEvent) (uint64, error)
}

// SessionService is the session ledger: it owns session metadata, message
// history, and the per-session content store, and serializes every
// mutation per session id.
type SessionService struct {
	store  store.Store
	events EventSink
	logger *logger.Logger

	// locks holds one mutex per session id so that mutations on the same
	// session never interleave while cross-session operations run in
	// parallel.
	locks sync.Map
}

// NewSessionService creates a new session ledger.
func NewSessionService(st store.Store, events EventSink, log *logger.Logger) *SessionService {
	return &SessionService{
		store:  st,
		events: events,
		logger: log,
	}
}

func (s *SessionService) lockFor(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Update applies fn to the session under its per-session lock and persists
// the result. fn sees a snapshot; returning an error discards the
// mutation. The saved session is returned.
func (s *SessionService) Update(ctx context.Context, sessionID string, fn func(*model.Session) error) (*model.Session, error) {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	session.Touch(time.Now())
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Create starts a new session. The direct path (skipConversation) begins
// in the generating stage; the conversational path begins at initial. The
// message sequence starts empty either way.
func (s *SessionService) Create(ctx context.Context, userID, title string, collectedInfo map[string]string, skipConversation bool) (*model.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.InvalidInput("title must not be empty")
	}
	if userID == "" {
		userID = "default_user"
	}

	stage := model.StageInitial
	path := "conversation"
	if skipConversation {
		stage = model.StageGenerating
		path = "direct"
	}

	now := time.Now()
	session := &model.Session{
		ID:     uuid.Must(uuid.NewV7()).String(),
		UserID: userID,
		Title:  title,
		Status: model.StatusActive,
		Context: model.Context{
			CollectedInfo: model.TrimInfo(collectedInfo),
			CurrentStage:  stage,
			PaperContent:  make(model.PaperContent),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsTotal.WithLabelValues(path).Inc()
	s.publish(ctx, session, model.EventSessionCreated, "")
	s.logger.Info("session created",
		logger.String("session_id", session.ID),
		logger.String("user_id", userID),
		logger.String("stage", string(stage)),
	)

	return session.Clone(), nil
}

// Get returns a snapshot of the session including its content store.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.store.Load(ctx, sessionID)
}

// List returns session summaries, optionally filtered by user, newest
// updated first.
func (s *SessionService) List(ctx context.Context, userID string) ([]model.Summary, error) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.Summary, 0, len(sessions))
	for _, session := range sessions {
		if userID != "" && session.UserID != userID {
			continue
		}
		summaries = append(summaries, session.Summarize())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})

	return summaries, nil
}

// AppendMessage appends a message to an active session.
func (s *SessionService) AppendMessage(ctx context.Context, sessionID string, role model.Role, content string) (*model.Session, error) {
	session, err := s.Update(ctx, sessionID, func(session *model.Session) error {
		if session.Status != model.StatusActive {
			return apperr.InvalidState("session %s is %s", sessionID, session.Status)
		}
		session.Messages = append(session.Messages, model.Message{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Role:      role,
			Content:   content,
			Timestamp: time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MessagesTotal.WithLabelValues(string(role)).Inc()
	return session, nil
}

// Delete removes the session, its messages, and its content store
// entirely and irrevocably. Unknown ids fail with NotFound.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.locks.Delete(sessionID)

	s.publish(ctx, session, model.EventSessionDeleted, "")
	s.logger.Info("session deleted", logger.String("session_id", sessionID))
	return nil
}

// SetStatus updates the session status. Internal operation used by the
// stage controller and generation orchestrator.
func (s *SessionService) SetStatus(ctx context.Context, sessionID string, status model.Status) error {
	_, err := s.Update(ctx, sessionID, func(session *model.Session) error {
		session.Status = status
		return nil
	})
	return err
}

func (s *SessionService) publish(ctx context.Context, session *model.Session, eventType model.EventType, reason string) {
	if s.events == nil {
		return
	}
	_, err := s.events.Publish(ctx, &model.PaperEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: session.ID,
		UserID:    session.UserID,
		Type:      eventType,
		Stage:     session.Context.CurrentStage,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to publish event",
			logger.String("type", string(eventType)), logger.Err(err))
	}
}
