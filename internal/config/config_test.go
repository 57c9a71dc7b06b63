package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "./data/sessions", cfg.DataDir)
	assert.Equal(t, 5, cfg.MinRounds)
	assert.Equal(t, 15, cfg.MaxRounds)
	assert.Equal(t, 120*time.Second, cfg.SectionTimeout)
	assert.Empty(t, cfg.NATSURL)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadCustomAPIs(t *testing.T) {
	t.Setenv("API_KEY_1", "k1")
	t.Setenv("API_BASE_URL_1", "https://one.example.com/v1")
	t.Setenv("API_MODEL_1", "model-one")
	t.Setenv("API_KEY_2", "k2")
	t.Setenv("API_BASE_URL_2", "https://two.example.com/v1")
	t.Setenv("API_MODEL_2", "model-two")
	// Slot 3 is incomplete; scanning stops at the gap.
	t.Setenv("API_KEY_3", "k3")

	cfg := Load()
	require.Len(t, cfg.CustomAPIs, 2)
	assert.Equal(t, "api_1_model-one", cfg.CustomAPIs[0].Name)
	assert.Equal(t, "https://one.example.com/v1", cfg.CustomAPIs[0].BaseURL)
	assert.Equal(t, "api_2_model-two", cfg.CustomAPIs[1].Name)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MIN_ROUNDS", "2")
	t.Setenv("SECTION_TIMEOUT", "45s")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, 2, cfg.MinRounds)
	assert.Equal(t, 45*time.Second, cfg.SectionTimeout)
	assert.True(t, cfg.TracingEnabled)
}
