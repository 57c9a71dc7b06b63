package model

import (
	"time"
)

// EventType represents the type of paper lifecycle event.
type EventType string

const (
	EventSessionCreated      EventType = "session_created"
	EventSessionDeleted      EventType = "session_deleted"
	EventStageAdvanced       EventType = "stage_advanced"
	EventSectionGenerated    EventType = "section_generated"
	EventGenerationCompleted EventType = "generation_completed"
	EventGenerationFailed    EventType = "generation_failed"
)

// PaperEvent is published to the event stream on session lifecycle and
// generation progress changes. Consumers observe progress without polling.
type PaperEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Type      EventType `json:"type"`
	Stage     Stage     `json:"stage,omitempty"`
	Section   Section   `json:"section,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
