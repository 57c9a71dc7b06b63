package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
	"github.com/scholarly-ai/paper-agent/internal/llm"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/prompt"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// Collaborator is the external generation capability: produce text given
// context, and list the available services.
type Collaborator interface {
	Chat(ctx context.Context, service string, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
	Names() []string
}

// historyLimit bounds how many recent messages are sent to the
// collaborator for context.
const historyLimit = 6

// StageController drives a session's stage forward in response to
// conversational turns. Stages only move forward; conversation closes once
// generation starts.
type StageController struct {
	sessions  *SessionService
	generator *Generator
	collab    Collaborator
	logger    *logger.Logger

	minRounds int
	maxRounds int
}

// NewStageController creates a new stage controller.
func NewStageController(sessions *SessionService, generator *Generator, collab Collaborator, minRounds, maxRounds int, log *logger.Logger) *StageController {
	return &StageController{
		sessions:  sessions,
		generator: generator,
		collab:    collab,
		logger:    log,
		minRounds: minRounds,
		maxRounds: maxRounds,
	}
}

// Advance processes one conversational turn: it appends the user message,
// folds extracted fields into the collected information, moves the stage
// forward, and appends the assistant reply. When the turn lands on the
// generating stage the controller runs the generation pipeline and the
// response carries the assembled paper content.
func (c *StageController) Advance(ctx context.Context, sessionID, userMessage string) (*model.SendMessageResponse, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return nil, apperr.InvalidInput("message must not be empty")
	}

	// Append the user message; the closure re-validates under the lock.
	session, err := c.sessions.Update(ctx, sessionID, func(session *model.Session) error {
		if session.Status != model.StatusActive {
			return apperr.InvalidState("session %s is %s", sessionID, session.Status)
		}
		if !session.Context.CurrentStage.Conversational() {
			return apperr.InvalidState("conversation is closed in stage %s", session.Context.CurrentStage)
		}
		session.Messages = append(session.Messages, model.Message{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Role:      model.RoleUser,
			Content:   userMessage,
			Timestamp: time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	currentStage := session.Context.CurrentStage
	extracted := c.extract(ctx, userMessage, currentStage)

	merged := make(map[string]string, len(session.Context.CollectedInfo)+len(extracted))
	for k, v := range session.Context.CollectedInfo {
		merged[k] = v
	}
	for k, v := range extracted {
		merged[k] = v
	}

	nextStage, missing := c.decide(currentStage, merged, session.Round())
	reply := c.reply(ctx, session, nextStage, merged, missing)

	session, err = c.sessions.Update(ctx, sessionID, func(session *model.Session) error {
		// The decision above came from a snapshot; a concurrent turn may
		// have closed or advanced the session since. Re-validate under the
		// lock and never move the stage backward.
		if session.Status != model.StatusActive {
			return apperr.InvalidState("session %s is %s", sessionID, session.Status)
		}
		if !session.Context.CurrentStage.Conversational() {
			return apperr.InvalidState("conversation is closed in stage %s", session.Context.CurrentStage)
		}
		for k, v := range extracted {
			session.Context.CollectedInfo[k] = v
		}
		if session.Context.CurrentStage.Before(nextStage) {
			session.Context.CurrentStage = nextStage
		}
		session.Messages = append(session.Messages, model.Message{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Role:      model.RoleAssistant,
			Content:   reply,
			Timestamp: time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	finalStage := session.Context.CurrentStage
	if finalStage != currentStage {
		c.sessions.publish(ctx, session, model.EventStageAdvanced, "")
		c.logger.Info("stage advanced",
			logger.String("session_id", sessionID),
			logger.String("from", string(currentStage)),
			logger.String("to", string(finalStage)),
		)
	}

	resp := &model.SendMessageResponse{
		Message: reply,
		Stage:   finalStage,
		Round:   session.Round(),
		Status:  session.Status,
	}

	if finalStage == model.StageGenerating {
		content, err := c.generator.Generate(ctx, sessionID)
		if err != nil {
			// The stage stays at generating with partial content intact;
			// the client retries through the direct generate operation.
			return nil, err
		}
		resp.Message = prompt.CompletionNotice
		resp.Stage = model.StageCompleted
		resp.Status = model.StatusCompleted
		resp.PaperContent = content
	}

	return resp, nil
}

// decide picks the next stage from the current stage, the accumulated
// information, and the round count. The move is always forward: one step
// through the collection stages until the required fields are complete or
// the round budget runs out, then generating.
func (c *StageController) decide(current model.Stage, info map[string]string, round int) (model.Stage, []string) {
	missing := prompt.MissingFields(info)

	if len(missing) == 0 || round >= c.maxRounds {
		return model.StageGenerating, nil
	}
	if round < c.minRounds && current.Before(model.LastConversational) {
		next, _ := current.Next()
		return next, missing
	}
	// Past the minimum rounds (or out of collection stages): hold position
	// and chase the gaps.
	return current, missing
}

// reply produces the assistant turn for the transition. Collaborator
// failures degrade to the static stage questions so a broken AI service
// never blocks the conversation.
func (c *StageController) reply(ctx context.Context, session *model.Session, next model.Stage, info map[string]string, missing []string) string {
	if next == model.StageGenerating {
		return prompt.GenerationNotice
	}
	if len(missing) > 0 && session.Round() >= c.minRounds {
		return prompt.MissingInfo(missing)
	}

	resp, err := c.collab.Chat(ctx, "", &llm.CompletionRequest{
		System:      prompt.SystemRole,
		Messages:    append(recentHistory(session), llm.ChatMessage{Role: "user", Content: prompt.Guidance(next, info)}),
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		c.logger.Warn("guidance generation failed, using static question", logger.Err(err))
		return prompt.StageQuestion(next)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return prompt.StageQuestion(next)
	}
	return resp.Content
}

// extract asks the collaborator to pull structured fields out of a user
// turn. On failure the raw turn is kept under user_notes so no input is
// lost.
func (c *StageController) extract(ctx context.Context, userMessage string, stage model.Stage) map[string]string {
	fallback := map[string]string{"user_notes": userMessage}

	resp, err := c.collab.Chat(ctx, "", &llm.CompletionRequest{
		System:      prompt.ExtractionSystem,
		Messages:    []llm.ChatMessage{{Role: "user", Content: prompt.Extraction(userMessage, stage)}},
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		c.logger.Warn("information extraction failed", logger.Err(err))
		return fallback
	}

	extracted, err := parseExtracted(resp.Content)
	if err != nil || len(extracted) == 0 {
		return fallback
	}
	return extracted
}

// parseExtracted finds the JSON object in a collaborator response and
// flattens it to string fields.
func parseExtracted(content string) (map[string]string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64, bool:
			out[k] = fmt.Sprint(val)
		}
	}
	return model.TrimInfo(out), nil
}

// recentHistory converts the tail of the message sequence to collaborator
// chat format, skipping system messages.
func recentHistory(session *model.Session) []llm.ChatMessage {
	msgs := session.Messages
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}
	history := make([]llm.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == model.RoleSystem {
			continue
		}
		history = append(history, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return history
}
