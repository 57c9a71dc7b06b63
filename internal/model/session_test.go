package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionRound(t *testing.T) {
	s := &Session{}
	assert.Equal(t, 0, s.Round())

	s.Messages = append(s.Messages, Message{Role: RoleUser})
	assert.Equal(t, 0, s.Round())

	s.Messages = append(s.Messages, Message{Role: RoleAssistant})
	assert.Equal(t, 1, s.Round())

	s.Messages = append(s.Messages, Message{Role: RoleUser}, Message{Role: RoleAssistant})
	assert.Equal(t, 2, s.Round())
}

func TestSessionTouchMonotone(t *testing.T) {
	now := time.Now()
	s := &Session{UpdatedAt: now}

	s.Touch(now.Add(-time.Hour))
	assert.Equal(t, now, s.UpdatedAt)

	later := now.Add(time.Second)
	s.Touch(later)
	assert.Equal(t, later, s.UpdatedAt)
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := &Session{
		ID:       "s1",
		Messages: []Message{{ID: "m1", Role: RoleUser, Content: "hello"}},
		Context: Context{
			CollectedInfo: map[string]string{"research_topic": "caching"},
			CurrentStage:  StageInitial,
			PaperContent:  PaperContent{SectionAbstract: "text"},
		},
	}

	cp := s.Clone()
	cp.Messages[0].Content = "mutated"
	cp.Messages = append(cp.Messages, Message{ID: "m2"})
	cp.Context.CollectedInfo["research_topic"] = "mutated"
	cp.Context.PaperContent[SectionAbstract] = "mutated"

	assert.Equal(t, "hello", s.Messages[0].Content)
	assert.Len(t, s.Messages, 1)
	assert.Equal(t, "caching", s.Context.CollectedInfo["research_topic"])
	assert.Equal(t, "text", s.Context.PaperContent[SectionAbstract])
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	s := &Session{
		ID:        "s1",
		UserID:    "u1",
		Title:     "A Study",
		Status:    StatusActive,
		Messages:  []Message{{}, {}, {}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	sum := s.Summarize()
	assert.Equal(t, "s1", sum.SessionID)
	assert.Equal(t, "u1", sum.UserID)
	assert.Equal(t, "A Study", sum.Title)
	assert.Equal(t, StatusActive, sum.Status)
	assert.Equal(t, 3, sum.MessageCount)
}

func TestTrimInfo(t *testing.T) {
	out := TrimInfo(map[string]string{
		" research_topic ": "  caching  ",
		"empty":            "   ",
		"":                 "orphan",
		"kept":             "value",
	})
	assert.Equal(t, map[string]string{
		"research_topic": "caching",
		"kept":           "value",
	}, out)
}
