// Package storage defines the session persistence contract and the
// asynchronous snapshot writer that feeds it.
package storage

import (
	"context"

	"github.com/openplayhq/rally/internal/domain/session"
)

// Store persists session snapshots and the durable game log.
type Store interface {
	// SaveSnapshot writes the snapshot and appends any game records it
	// carries that are not yet in the log, in one transaction.
	SaveSnapshot(ctx context.Context, snap session.Snapshot) error

	// LoadSnapshot returns the persisted snapshot, or ErrNoSnapshot
	// when nothing has been saved yet.
	LoadSnapshot(ctx context.Context) (session.Snapshot, error)

	// Reset deletes the snapshot and the game log.
	Reset(ctx context.Context) error

	// Close releases the underlying handle.
	Close() error
}
