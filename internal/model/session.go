// Package model defines data structures for the paper generation platform.
package model

import (
	"strings"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Status represents the lifecycle status of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Message is a single conversation turn. Messages are append-only: once
// added to a session they are never edited or removed individually.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Context holds the working state a session accumulates across turns:
// the information collected for generation, the current stage, and the
// assembled paper content.
type Context struct {
	CollectedInfo map[string]string `json:"collected_info"`
	CurrentStage  Stage             `json:"current_stage"`
	PaperContent  PaperContent      `json:"paper_content"`
}

// Session is one user's paper-writing project: its conversation history,
// stage, collected information, and generated document.
type Session struct {
	ID        string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Messages  []Message `json:"messages"`
	Context   Context   `json:"context"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Round is the user-turn/assistant-turn pair count derived from the
// message history length.
func (s *Session) Round() int {
	return len(s.Messages) / 2
}

// Touch advances updated_at, keeping it monotonically non-decreasing.
func (s *Session) Touch(now time.Time) {
	if now.After(s.UpdatedAt) {
		s.UpdatedAt = now
	}
}

// Clone returns a deep copy of the session so that readers never share
// mutable state with writers.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	cp.Context.CollectedInfo = make(map[string]string, len(s.Context.CollectedInfo))
	for k, v := range s.Context.CollectedInfo {
		cp.Context.CollectedInfo[k] = v
	}
	cp.Context.PaperContent = s.Context.PaperContent.Clone()
	return &cp
}

// Summary is the session list view projection.
type Summary struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Status       Status    `json:"status"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summarize projects a session onto its list view.
func (s *Session) Summarize() Summary {
	return Summary{
		SessionID:    s.ID,
		UserID:       s.UserID,
		Title:        s.Title,
		Status:       s.Status,
		MessageCount: len(s.Messages),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// TrimInfo normalizes a collected-information mapping: values are
// whitespace-trimmed and empty values are dropped.
func TrimInfo(info map[string]string) map[string]string {
	out := make(map[string]string, len(info))
	for k, v := range info {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
