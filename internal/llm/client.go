// Package llm provides generation collaborator clients and a registry of
// configured AI services.
package llm

import (
	"context"
	"errors"
)

// ErrNoService is returned when no AI service is configured or the named
// service is unknown.
var ErrNoService = errors.New("no AI service available")

// ChatMessage represents a chat message for the collaborator.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for a single AI service.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the service name.
	Name() string

	// Models returns available models.
	Models() []string
}
