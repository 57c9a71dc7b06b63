package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scholarly-ai/paper-agent/internal/llm"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/internal/prompt"
	"github.com/scholarly-ai/paper-agent/internal/store"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// fakeCollab scripts the collaborator. Every call is recorded; chat
// decides the response.
type fakeCollab struct {
	mu    sync.Mutex
	calls []*llm.CompletionRequest
	chat  func(req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

func (f *fakeCollab) Chat(ctx context.Context, service string, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.chat(req)
}

func (f *fakeCollab) Names() []string { return []string{"fake"} }

func (f *fakeCollab) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// lastPrompt returns the user content of the most recent call.
func (f *fakeCollab) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	msgs := f.calls[len(f.calls)-1].Messages
	return msgs[len(msgs)-1].Content
}

// sectionFromPrompt recognizes which section a generation prompt asks
// for, or "" when the prompt is not a section request.
func sectionFromPrompt(content string) model.Section {
	for _, e := range model.Sections {
		if strings.Contains(content, "Write the "+e.Title) {
			return e.Key
		}
	}
	return ""
}

// scriptedChat answers extraction calls with fields, section calls with
// "generated <section>", and everything else with guidance.
func scriptedChat(fields string, guidance string) func(req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return func(req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
		if req.System == prompt.ExtractionSystem {
			return &llm.CompletionResponse{Content: fields}, nil
		}
		userContent := req.Messages[len(req.Messages)-1].Content
		if section := sectionFromPrompt(userContent); section != "" {
			return &llm.CompletionResponse{Content: "generated " + string(section)}, nil
		}
		return &llm.CompletionResponse{Content: guidance}, nil
	}
}

// recordingSink captures published events.
type recordingSink struct {
	mu     sync.Mutex
	events []*model.PaperEvent
}

func (r *recordingSink) Publish(ctx context.Context, event *model.PaperEvent) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return uint64(len(r.events)), nil
}

func (r *recordingSink) ofType(t model.EventType) []*model.PaperEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PaperEvent
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	sessions   *SessionService
	generator  *Generator
	controller *StageController
	exporter   *Exporter
	collab     *fakeCollab
	sink       *recordingSink
}

func newFixture(t *testing.T, minRounds, maxRounds int) *fixture {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	collab := &fakeCollab{chat: scriptedChat("{}", "what is your research about?")}
	sink := &recordingSink{}
	log := logger.NewNop()

	sessions := NewSessionService(st, sink, log)
	generator := NewGenerator(sessions, collab, 30*time.Second, 4096, log)
	controller := NewStageController(sessions, generator, collab, minRounds, maxRounds, log)
	exporter := NewExporter(sessions, log)

	return &fixture{
		sessions:   sessions,
		generator:  generator,
		controller: controller,
		exporter:   exporter,
		collab:     collab,
		sink:       sink,
	}
}

// completeInfo covers every required field.
func completeInfo() map[string]string {
	info := make(map[string]string, len(prompt.RequiredFields))
	for _, f := range prompt.RequiredFields {
		info[f] = "known " + f
	}
	return info
}
