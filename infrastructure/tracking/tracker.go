// Package tracking propagates batch progress to subscribed reporters.
package tracking

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helixml/textdiff/domain/compare"
)

// Tracker provides progress tracking with automatic notification to
// subscribers. It wraps Progress and propagates state changes to registered
// reporters. Tracker satisfies the engine's progress sink.
type Tracker struct {
	progress    compare.Progress
	subscribers []Reporter
	logger      *slog.Logger
	mu          sync.RWMutex
}

// NewTracker creates a new progress tracker for the given batch label.
func NewTracker(label string, logger *slog.Logger) *Tracker {
	return &Tracker{
		progress:    compare.NewProgress(label),
		subscribers: make([]Reporter, 0),
		logger:      logger,
	}
}

// Progress returns a copy of the current progress snapshot.
func (t *Tracker) Progress() compare.Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Subscribe adds a reporter to receive progress change notifications.
func (t *Tracker) Subscribe(reporter Reporter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, reporter)
}

// SetTotal sets the total row count for progress tracking.
func (t *Tracker) SetTotal(ctx context.Context, total int) {
	t.mu.Lock()
	t.progress = t.progress.SetTotal(total)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// SetCurrent updates the current progress count and optionally a message.
func (t *Tracker) SetCurrent(ctx context.Context, current int, message string) {
	t.mu.Lock()
	t.progress = t.progress.SetCurrent(current, message)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// Fail marks the batch as failed with an error message.
func (t *Tracker) Fail(ctx context.Context, errMsg string) {
	t.mu.Lock()
	t.progress = t.progress.Fail(errMsg)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// Complete marks the batch as completed.
func (t *Tracker) Complete(ctx context.Context) {
	t.mu.Lock()
	t.progress = t.progress.Complete()
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// notifySubscribers sends the progress update to all registered reporters.
func (t *Tracker) notifySubscribers(ctx context.Context, progress compare.Progress) {
	t.mu.RLock()
	subscribers := make([]Reporter, len(t.subscribers))
	copy(subscribers, t.subscribers)
	t.mu.RUnlock()

	for _, subscriber := range subscribers {
		if err := subscriber.OnChange(ctx, progress); err != nil {
			t.logger.Error("failed to notify subscriber",
				slog.String("error", err.Error()),
				slog.String("batch", progress.Label()),
			)
			// Continue notifying other subscribers even if one fails
		}
	}
}

// Notify explicitly notifies all subscribers of the current progress.
// Use this after initial setup to announce the tracker's existence.
func (t *Tracker) Notify(ctx context.Context) {
	t.mu.RLock()
	progress := t.progress
	t.mu.RUnlock()

	t.notifySubscribers(ctx, progress)
}
