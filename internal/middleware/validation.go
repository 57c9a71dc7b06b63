package middleware

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
)

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.InvalidInput("invalid session ID format")
	}
	return nil
}

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return apperr.InvalidInput("message cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return apperr.InvalidInput("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return apperr.InvalidInput("message must be valid UTF-8")
	}
	return nil
}

// ValidateTitle validates a paper title.
func ValidateTitle(title string) error {
	if len(title) > 256 {
		return apperr.InvalidInput("title exceeds maximum length")
	}
	if !utf8.ValidString(title) {
		return apperr.InvalidInput("title must be valid UTF-8")
	}
	return nil
}
