package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := NewFileStore(dir, logger.NewNop())
	require.NoError(t, err)
	return st, dir
}

func testSession(id string) *model.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Session{
		ID:     id,
		UserID: "u1",
		Title:  "A Study of Caches",
		Status: model.StatusActive,
		Messages: []model.Message{
			{ID: "m1", Role: model.RoleUser, Content: "hello", Timestamp: now},
		},
		Context: model.Context{
			CollectedInfo: map[string]string{"research_topic": "caching"},
			CurrentStage:  model.StageInitial,
			PaperContent:  model.PaperContent{model.SectionAbstract: "abs"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestFileStoreSaveLoad(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	want := testSession("s1")
	require.NoError(t, st.Save(ctx, want))

	got, err := st.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Context.CollectedInfo, got.Context.CollectedInfo)
	assert.Equal(t, want.Context.PaperContent, got.Context.PaperContent)

	// Loaded snapshots must not alias the cached copy.
	got.Context.PaperContent[model.SectionAbstract] = "mutated"
	again, err := st.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "abs", again.Context.PaperContent[model.SectionAbstract])
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, testSession("s1")))

	reopened, err := NewFileStore(dir, logger.NewNop())
	require.NoError(t, err)

	got, err := reopened.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "abs", got.Context.PaperContent[model.SectionAbstract])
}

func TestFileStoreLoadUnknown(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, testSession("s1")))

	require.NoError(t, st.Delete(ctx, "s1"))
	_, err := st.Load(ctx, "s1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "s1.json"))

	assert.ErrorIs(t, st.Delete(ctx, "s1"), apperr.ErrNotFound)
}

func TestFileStoreListSkipsUnreadable(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, testSession("s1")))
	require.NoError(t, st.Save(ctx, testSession("s2")))

	// A corrupt file must not take down the listing.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	sessions, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestFileStoreNilMapsRepaired(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	raw := []byte(`{"session_id":"bare","user_id":"u1","title":"t","status":"active","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bare.json"), raw, 0o644))

	got, err := st.Load(ctx, "bare")
	require.NoError(t, err)
	assert.NotNil(t, got.Context.CollectedInfo)
	assert.NotNil(t, got.Context.PaperContent)
}
