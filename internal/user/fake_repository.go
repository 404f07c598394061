package user

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/loadoutlab/armory/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of the user
// repository for testing. It enforces the same synced-at guard as the
// PostgreSQL implementation so concurrency tests behave like production.
type FakeRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User

	// UpdateErr, when set, is returned by UpdateInventory before any state
	// change. Tests use it to simulate commit failures.
	UpdateErr error
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{users: make(map[string]*domain.User)}
}

func (f *FakeRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	if u.SyncedAt != nil {
		ts := *u.SyncedAt
		cp.SyncedAt = &ts
	}
	cp.Inventory = append(json.RawMessage(nil), u.Inventory...)
	return &cp, nil
}

func (f *FakeRepository) EnsureUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		f.users[userID] = &domain.User{ID: userID}
	}
	return nil
}

func (f *FakeRepository) UpdateInventory(ctx context.Context, userID string, inventory json.RawMessage, expectedSyncedAt *int64, newSyncedAt int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if !timestampsEqual(u.SyncedAt, expectedSyncedAt) {
		return domain.ErrSyncConflict
	}
	u.Inventory = append(json.RawMessage(nil), inventory...)
	u.SyncedAt = &newSyncedAt
	return nil
}

// SeedInventory installs a snapshot directly, bypassing the sync path.
func (f *FakeRepository) SeedInventory(userID string, items []domain.InventoryItem, syncedAt int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, _ := json.Marshal(items)
	f.users[userID] = &domain.User{ID: userID, Inventory: raw, SyncedAt: &syncedAt}
}
