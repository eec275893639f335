package jobs

import (
	"context"
	"fmt"
	"time"

	"parking-reservation-backend/internal/store"
)

// TokenCleanup deletes revoked-credential records older than the retention
// window, keeping the denylist from growing without bound.
type TokenCleanup struct {
	Store     store.Store
	Retention time.Duration
}

// Name implements Job.
func (j *TokenCleanup) Name() string { return "token_cleanup" }

// Run implements Job.
func (j *TokenCleanup) Run(ctx context.Context) (string, error) {
	retention := j.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}

	deleted, err := j.Store.PruneRevokedTokens(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return "", fmt.Errorf("prune revoked tokens: %w", err)
	}
	return fmt.Sprintf("Token cleanup complete. Removed %d tokens.", deleted), nil
}
