package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loadoutlab/armory/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUser loads the account row with its inventory snapshot.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, inventory, synced_at
		FROM users
		WHERE user_id = $1
	`
	var (
		user     domain.User
		syncedAt *time.Time
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Inventory, &syncedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	if syncedAt != nil {
		ms := syncedAt.UnixMilli()
		user.SyncedAt = &ms
	}
	return &user, nil
}

// EnsureUser creates the account row on first contact. Inventory and
// synced_at stay NULL until the first sync commits.
func (r *UserRepository) EnsureUser(ctx context.Context, userID string) error {
	query := `
		INSERT INTO users (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEnsureUser, err)
	}
	return nil
}

// UpdateInventory writes the new snapshot only when the stored synced_at
// still matches what the caller read. IS NOT DISTINCT FROM makes the NULL
// case (first sync) compare equal, so the guard covers new users too.
func (r *UserRepository) UpdateInventory(ctx context.Context, userID string, inventory json.RawMessage, expectedSyncedAt *int64, newSyncedAt int64) error {
	query := `
		UPDATE users
		SET inventory = $2, synced_at = $3, updated_at = NOW()
		WHERE user_id = $1 AND synced_at IS NOT DISTINCT FROM $4
	`
	var expected *time.Time
	if expectedSyncedAt != nil {
		t := time.UnixMilli(*expectedSyncedAt).UTC()
		expected = &t
	}
	tag, err := r.db.Exec(ctx, query, userID, inventory, time.UnixMilli(newSyncedAt).UTC(), expected)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateInventory, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows means either the user vanished or another writer won the
	// race; tell them apart so the caller can map the error.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCheckUserExists, err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return domain.ErrSyncConflict
}
