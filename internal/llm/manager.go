package llm

import (
	"context"
	"fmt"

	"github.com/scholarly-ai/paper-agent/pkg/logger"
	"github.com/scholarly-ai/paper-agent/pkg/metrics"
)

// Manager is the registry of configured AI services. The first registered
// service is the default.
type Manager struct {
	order    []string
	services map[string]Client
	logger   *logger.Logger
}

// NewManager creates an empty service registry.
func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		services: make(map[string]Client),
		logger:   log,
	}
}

// Register adds a service under its own name. Registering the same name
// twice replaces the earlier client.
func (m *Manager) Register(c Client) {
	name := c.Name()
	if _, exists := m.services[name]; !exists {
		m.order = append(m.order, name)
	}
	m.services[name] = c
	m.logger.Info("AI service registered", logger.String("service", name))
}

// Names returns the registered service names in registration order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// Chat sends the request to the named service; an empty name selects the
// default service.
func (m *Manager) Chat(ctx context.Context, service string, req *CompletionRequest) (*CompletionResponse, error) {
	if len(m.order) == 0 {
		return nil, ErrNoService
	}
	if service == "" {
		service = m.order[0]
	}
	client, ok := m.services[service]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoService, service)
	}

	resp, err := client.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", service, err)
	}

	metrics.RecordTokens(service, resp.TokensIn, resp.TokensOut)
	return resp, nil
}
