// Package store provides durable session storage. Sessions survive process
// restarts; the exact on-disk format is owned by the implementation.
package store

import (
	"context"

	"github.com/scholarly-ai/paper-agent/internal/model"
)

// Store persists sessions. Load and List return snapshots that are safe to
// mutate; implementations fail with apperr.ErrNotFound for unknown ids and
// wrap infrastructure failures in apperr.ErrStorage.
type Store interface {
	// Save writes the session, replacing any previous version.
	Save(ctx context.Context, session *model.Session) error

	// Load returns a snapshot of the session.
	Load(ctx context.Context, sessionID string) (*model.Session, error)

	// List returns snapshots of all sessions, in no particular order.
	List(ctx context.Context) ([]*model.Session, error)

	// Delete removes the session entirely and irrevocably.
	Delete(ctx context.Context, sessionID string) error
}
