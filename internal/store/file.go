package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
	"github.com/scholarly-ai/paper-agent/internal/model"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
)

// FileStore keeps one JSON document per session under a data directory,
// with an in-memory cache in front of the disk. Writes go through a
// temp-file rename so a crash never leaves a half-written session behind.
type FileStore struct {
	dir    string
	logger *logger.Logger

	mu    sync.RWMutex
	cache map[string]*model.Session
}

// NewFileStore creates the data directory if needed and returns a store.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Storage(err, "create data directory %s", dir)
	}
	return &FileStore{
		dir:    dir,
		logger: log,
		cache:  make(map[string]*model.Session),
	}, nil
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

// Save writes the session to disk and refreshes the cache.
func (s *FileStore) Save(ctx context.Context, session *model.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return apperr.Storage(err, "marshal session %s", session.ID)
	}

	path := s.path(session.ID)
	tmp, err := os.CreateTemp(s.dir, session.ID+".*.tmp")
	if err != nil {
		return apperr.Storage(err, "create temp file for session %s", session.ID)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperr.Storage(err, "write session %s", session.ID)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperr.Storage(err, "close session file %s", session.ID)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return apperr.Storage(err, "commit session %s", session.ID)
	}

	s.mu.Lock()
	s.cache[session.ID] = session.Clone()
	s.mu.Unlock()

	return nil
}

// Load returns a snapshot of the session, reading through the cache.
func (s *FileStore) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	s.mu.RLock()
	cached, ok := s.cache[sessionID]
	s.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	session, err := s.read(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[sessionID] = session
	s.mu.Unlock()

	return session.Clone(), nil
}

// List scans the data directory and returns a snapshot of every session.
func (s *FileStore) List(ctx context.Context) ([]*model.Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperr.Storage(err, "read data directory %s", s.dir)
	}

	var sessions []*model.Session
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		session, err := s.Load(ctx, id)
		if err != nil {
			// A concurrently deleted or unreadable file should not take
			// down the whole listing.
			s.logger.Warn("skipping unreadable session file",
				logger.String("file", name), logger.Err(err))
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Delete removes the session from cache and disk. Unknown ids fail with
// apperr.ErrNotFound.
func (s *FileStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.cache, sessionID)
	s.mu.Unlock()

	if err := os.Remove(s.path(sessionID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.NotFound("session %s", sessionID)
		}
		return apperr.Storage(err, "delete session %s", sessionID)
	}
	return nil
}

func (s *FileStore) read(sessionID string) (*model.Session, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("session %s", sessionID)
		}
		return nil, apperr.Storage(err, "read session %s", sessionID)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperr.Storage(err, "decode session %s", sessionID)
	}
	if session.Context.CollectedInfo == nil {
		session.Context.CollectedInfo = make(map[string]string)
	}
	if session.Context.PaperContent == nil {
		session.Context.PaperContent = make(model.PaperContent)
	}
	if session.ID == "" {
		return nil, apperr.Storage(fmt.Errorf("missing session_id"), "decode session %s", sessionID)
	}
	return &session, nil
}
