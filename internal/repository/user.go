package repository

import (
	"context"
	"encoding/json"

	"github.com/loadoutlab/armory/internal/domain"
)

// User defines the interface for user and inventory persistence.
type User interface {
	// GetUser returns the account row, domain.ErrUserNotFound when absent.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// EnsureUser creates the account row if it does not exist yet. It is a
	// no-op for known users.
	EnsureUser(ctx context.Context, userID string) error

	// UpdateInventory commits a new inventory snapshot, guarded by the
	// synced-at timestamp the caller read before mutating. The update only
	// lands when the stored timestamp still equals expectedSyncedAt (both
	// nil counts as equal); otherwise domain.ErrSyncConflict is returned
	// and nothing changes. Timestamps are milliseconds since epoch.
	UpdateInventory(ctx context.Context, userID string, inventory json.RawMessage, expectedSyncedAt *int64, newSyncedAt int64) error
}
