package tracking

import (
	"context"
	"log/slog"

	"github.com/helixml/textdiff/domain/compare"
)

// LoggingReporter implements Reporter by logging progress changes.
type LoggingReporter struct {
	logger *slog.Logger
}

// NewLoggingReporter creates a new LoggingReporter.
func NewLoggingReporter(logger *slog.Logger) *LoggingReporter {
	return &LoggingReporter{
		logger: logger,
	}
}

// OnChange logs the batch progress change.
func (r *LoggingReporter) OnChange(_ context.Context, progress compare.Progress) error {
	state := progress.State()

	if state == compare.ProgressStateFailed {
		r.logger.Error(progress.Label(),
			slog.String("state", string(state)),
			slog.Float64("completion_percent", progress.CompletionPercent()),
			slog.String("error", progress.Error()),
		)
	} else {
		r.logger.Info(progress.Label(),
			slog.String("state", string(state)),
			slog.Float64("completion_percent", progress.CompletionPercent()),
		)
	}

	return nil
}
