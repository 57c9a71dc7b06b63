package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
)

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID("0190a8b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b"))
	assert.ErrorIs(t, ValidateSessionID(""), apperr.ErrInvalidInput)
	assert.ErrorIs(t, ValidateSessionID("not-a-uuid"), apperr.ErrInvalidInput)
	assert.ErrorIs(t, ValidateSessionID("../etc/passwd"), apperr.ErrInvalidInput)
}

func TestValidateMessageContent(t *testing.T) {
	assert.NoError(t, ValidateMessageContent("hello"))
	assert.ErrorIs(t, ValidateMessageContent(""), apperr.ErrInvalidInput)
	assert.ErrorIs(t, ValidateMessageContent(strings.Repeat("x", 100001)), apperr.ErrInvalidInput)
	assert.ErrorIs(t, ValidateMessageContent("bad\xff\xfe"), apperr.ErrInvalidInput)
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("A Study of Caches"))
	assert.NoError(t, ValidateTitle(""))
	assert.ErrorIs(t, ValidateTitle(strings.Repeat("t", 257)), apperr.ErrInvalidInput)
	assert.ErrorIs(t, ValidateTitle("bad\xff"), apperr.ErrInvalidInput)
}
