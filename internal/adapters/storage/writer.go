package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/openplayhq/rally/internal/domain/session"
	"github.com/openplayhq/rally/pkg/logger"
	"github.com/openplayhq/rally/pkg/metrics"
)

// defaultFlushTimeout bounds the final write during shutdown.
const defaultFlushTimeout = 5 * time.Second

// Writer persists snapshots off the request path. Submissions coalesce:
// only the newest snapshot is held, so a burst of results costs one
// write. The final snapshot is flushed synchronously on shutdown.
type Writer struct {
	store Store

	pending chan session.Snapshot

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	flushTimeout time.Duration

	// Logging
	logger logger.Logger
}

// NewWriter creates a snapshot writer with configuration options.
func NewWriter(store Store, opts ...Option) *Writer {
	w := &Writer{
		store:        store,
		pending:      make(chan session.Snapshot, 1),
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		flushTimeout: defaultFlushTimeout,
		logger:       logger.Get().Named("snapshot-writer"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Submit queues a snapshot for persistence. A newer snapshot replaces
// any queued one. Submit never blocks on the store.
func (w *Writer) Submit(snap session.Snapshot) {
	for {
		select {
		case w.pending <- snap:
			metrics.UpdateSnapshotQueueDepth(len(w.pending))
			return
		default:
		}

		// Slot taken by a stale snapshot. Drop it and retry.
		select {
		case <-w.pending:
		default:
		}
	}
}

// Run persists queued snapshots until ctx is canceled or Shutdown is
// called. Whatever is still queued gets one final write before return.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			w.flush()
			return
		case <-w.shutdown:
			w.flush()
			return
		case snap := <-w.pending:
			metrics.UpdateSnapshotQueueDepth(len(w.pending))
			w.persist(ctx, snap)
		}
	}
}

// Shutdown gracefully stops the writer.
func (w *Writer) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// flush writes any still-queued snapshot with a fresh context so a
// canceled run context cannot drop the final state.
func (w *Writer) flush() {
	select {
	case snap := <-w.pending:
		ctx, cancel := context.WithTimeout(context.Background(), w.flushTimeout)
		defer cancel()
		w.persist(ctx, snap)
	default:
	}
	metrics.UpdateSnapshotQueueDepth(0)
}

func (w *Writer) persist(ctx context.Context, snap session.Snapshot) {
	start := time.Now()
	if err := w.store.SaveSnapshot(ctx, snap); err != nil {
		metrics.RecordSnapshotPersistError()
		metrics.RecordErrorByComponent("storage", "persist_error")
		w.logger.Error(ctx, "snapshot persist failed", logger.Error(err))
		return
	}
	metrics.RecordSnapshotPersist(float64(time.Since(start).Milliseconds()))
}
