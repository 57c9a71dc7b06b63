// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SessionsTotal tracks paper sessions created.
	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_sessions_total",
			Help: "Total paper sessions created",
		},
		[]string{"path"}, // "conversation" or "direct"
	)

	// MessagesTotal tracks conversation messages appended.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_messages_total",
			Help: "Total conversation messages appended",
		},
		[]string{"role"},
	)

	// SectionDuration tracks per-section generation duration.
	SectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paper_section_generation_seconds",
			Help:    "Paper section generation duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"section", "status"},
	)

	// GenerationsActive tracks generation pipelines currently running.
	GenerationsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "paper_generations_active",
			Help: "Number of generation pipelines currently running",
		},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"service", "direction"},
	)

	// ExportsTotal tracks paper exports by format.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_exports_total",
			Help: "Total paper exports",
		},
		[]string{"format"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordSection records metrics for one section generation attempt.
func RecordSection(section, status string, duration float64) {
	SectionDuration.WithLabelValues(section, status).Observe(duration)
}

// RecordTokens records LLM token usage for a service.
func RecordTokens(service string, tokensIn, tokensOut int) {
	LLMTokensTotal.WithLabelValues(service, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(service, "out").Add(float64(tokensOut))
}
