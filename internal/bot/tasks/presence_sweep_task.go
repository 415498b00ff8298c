package tasks

import (
	"context"
	"fmt"
	"time"
)

// presenceTimeout is how long a profile may be inactive before the sweep
// marks it offline.
const presenceTimeout = 15 * time.Minute

// newPresenceSweepTask creates the scheduled task function that marks
// inactive profiles offline so the /stats online counter stays honest.
func newPresenceSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "presence_sweep")

	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().Add(-presenceTimeout)

		affected, err := deps.Store.MarkStaleProfilesOffline(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Presence sweep failed", "error", err)
			return fmt.Errorf("presence sweep failed: %w", err)
		}

		log.DebugContext(ctx, "Presence sweep completed", "marked_offline", affected)
		return nil
	}
}
