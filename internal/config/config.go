// Package config provides environment configuration for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// CustomAPI describes one OpenAI-compatible AI service endpoint configured
// through numbered environment variables.
type CustomAPI struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Session storage
	DataDir string

	// NATS settings (optional; empty URL disables the event stream)
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// JWT settings (optional; empty secret disables token auth)
	JWTSecret string

	// AI services
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	CustomAPIs      []CustomAPI

	// Conversation flow
	MinRounds int
	MaxRounds int

	// Generation
	SectionTimeout time.Duration
	MaxTokens      int

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Minute),

		// Storage
		DataDir: getEnv("DATA_DIR", "./data/sessions"),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", ""),

		// AI services
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		CustomAPIs:      loadCustomAPIs(),

		// Conversation flow
		MinRounds: getIntEnv("MIN_ROUNDS", 5),
		MaxRounds: getIntEnv("MAX_ROUNDS", 15),

		// Generation
		SectionTimeout: getDurationEnv("SECTION_TIMEOUT", 120*time.Second),
		MaxTokens:      getIntEnv("MAX_TOKENS", 4096),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// loadCustomAPIs reads numbered API_KEY_n / API_BASE_URL_n / API_MODEL_n
// triples until the first gap.
func loadCustomAPIs() []CustomAPI {
	var apis []CustomAPI
	for i := 1; ; i++ {
		key := os.Getenv(fmt.Sprintf("API_KEY_%d", i))
		baseURL := os.Getenv(fmt.Sprintf("API_BASE_URL_%d", i))
		model := os.Getenv(fmt.Sprintf("API_MODEL_%d", i))
		if key == "" || baseURL == "" || model == "" {
			break
		}
		apis = append(apis, CustomAPI{
			Name:    fmt.Sprintf("api_%d_%s", i, model),
			APIKey:  key,
			BaseURL: baseURL,
			Model:   model,
		})
	}
	return apis
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
