package compare

import "time"

// ProgressState represents the state of a running batch.
type ProgressState string

// ProgressState values.
const (
	ProgressStateStarted    ProgressState = "started"
	ProgressStateInProgress ProgressState = "in_progress"
	ProgressStateCompleted  ProgressState = "completed"
	ProgressStateFailed     ProgressState = "failed"
)

// IsTerminal returns true if the state is final.
func (s ProgressState) IsTerminal() bool {
	return s == ProgressStateCompleted || s == ProgressStateFailed
}

// Progress is an immutable snapshot of batch progress. State transitions
// return a new value.
type Progress struct {
	label        string
	state        ProgressState
	total        int
	current      int
	message      string
	errorMessage string
	startedAt    time.Time
	updatedAt    time.Time
}

// NewProgress creates a Progress for the given batch label.
func NewProgress(label string) Progress {
	now := time.Now().UTC()
	return Progress{
		label:     label,
		state:     ProgressStateStarted,
		startedAt: now,
		updatedAt: now,
	}
}

// Label returns the batch label.
func (p Progress) Label() string { return p.label }

// State returns the current state.
func (p Progress) State() ProgressState { return p.state }

// Total returns the total row count.
func (p Progress) Total() int { return p.total }

// Current returns the number of rows processed so far.
func (p Progress) Current() int { return p.current }

// Message returns the latest progress message.
func (p Progress) Message() string { return p.message }

// Error returns the error message if the batch failed.
func (p Progress) Error() string { return p.errorMessage }

// StartedAt returns when tracking began.
func (p Progress) StartedAt() time.Time { return p.startedAt }

// UpdatedAt returns when the snapshot was last updated.
func (p Progress) UpdatedAt() time.Time { return p.updatedAt }

// CompletionPercent calculates the completion percentage, clamped to [0, 100].
func (p Progress) CompletionPercent() float64 {
	if p.total == 0 {
		return 0.0
	}
	percent := float64(p.current) / float64(p.total) * 100.0
	if percent < 0 {
		return 0.0
	}
	if percent > 100 {
		return 100.0
	}
	return percent
}

// SetTotal sets the total row count.
func (p Progress) SetTotal(total int) Progress {
	p.total = total
	p.updatedAt = time.Now().UTC()
	return p
}

// SetCurrent updates progress and optionally the message.
func (p Progress) SetCurrent(current int, message string) Progress {
	p.state = ProgressStateInProgress
	p.current = current
	if message != "" {
		p.message = message
	}
	p.updatedAt = time.Now().UTC()
	return p
}

// Fail marks the batch as failed.
func (p Progress) Fail(errorMsg string) Progress {
	p.state = ProgressStateFailed
	p.errorMessage = errorMsg
	p.updatedAt = time.Now().UTC()
	return p
}

// Complete marks the batch as completed.
func (p Progress) Complete() Progress {
	p.state = ProgressStateCompleted
	p.current = p.total
	p.updatedAt = time.Now().UTC()
	return p
}
