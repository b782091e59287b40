package tracking

import (
	"context"

	"github.com/helixml/textdiff/domain/compare"
)

// Reporter defines the interface for progress reporting modules.
// Implementations receive notifications when batch progress changes.
type Reporter interface {
	// OnChange is called when batch progress changes.
	OnChange(ctx context.Context, progress compare.Progress) error
}
