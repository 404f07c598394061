package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/loadoutlab/armory/internal/concurrency"
	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/economy"
	"github.com/loadoutlab/armory/internal/inventory"
	"github.com/loadoutlab/armory/internal/logger"
	"github.com/loadoutlab/armory/internal/metrics"
	"github.com/loadoutlab/armory/internal/repository"
	"github.com/loadoutlab/armory/internal/sync"
)

// Service defines the interface for inventory sync operations
type Service interface {
	// SyncActions applies a full action batch against the user's stored
	// inventory and returns the new synced-at timestamp (ms since epoch).
	// syncedAt is the client's copy of the previous timestamp; a mismatch
	// rejects the batch with domain.ErrSyncConflict.
	SyncActions(ctx context.Context, userID string, syncedAt *int64, actions []sync.Action) (int64, error)

	// UpdateEquipped equips or unequips a single item outside a batch. The
	// game server drives this path, so no client timestamp is checked.
	UpdateEquipped(ctx context.Context, userID string, uid int, team domain.Team, equipped bool) (int64, error)

	// GetInventory returns the catalog-enriched read view of a user's
	// inventory.
	GetInventory(ctx context.Context, userID string) (*InventoryView, error)

	GetCacheStats() CacheStats
}

// InventoryItemView is an inventory item enriched with catalog data for
// read endpoints.
type InventoryItemView struct {
	domain.InventoryItem
	Name string          `json:"name"`
	Type domain.ItemType `json:"type"`
}

// InventoryView is the full read model for one user.
type InventoryView struct {
	UserID   string              `json:"userId"`
	Items    []InventoryItemView `json:"items"`
	SyncedAt *int64              `json:"syncedAt,omitempty"`
}

// CacheStats reports read cache occupancy for the info endpoint.
type CacheStats struct {
	Entries int `json:"entries"`
}

// ServiceConfig carries the inventory limits the service enforces.
type ServiceConfig struct {
	MaxItems            int
	StorageUnitMaxItems int
	CacheSize           int
	CacheTTL            time.Duration
}

type service struct {
	repo       repository.User
	catalog    economy.Catalog
	dispatcher *sync.Dispatcher
	locks      *concurrency.LockManager
	cache      *inventoryCache
	cfg        ServiceConfig

	now func() time.Time
}

// NewService creates the sync service.
func NewService(repo repository.User, catalog economy.Catalog, dispatcher *sync.Dispatcher, cfg ServiceConfig) Service {
	return &service{
		repo:       repo,
		catalog:    catalog,
		dispatcher: dispatcher,
		locks:      concurrency.NewLockManager(),
		cache:      newInventoryCache(cfg.CacheSize, cfg.CacheTTL),
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *service) SyncActions(ctx context.Context, userID string, syncedAt *int64, actions []sync.Action) (int64, error) {
	newSyncedAt, err := s.manipulate(ctx, userID, syncedAt, true, func(inv *inventory.Inventory, firstSync bool) error {
		return s.dispatcher.Dispatch(ctx, inv, userID, firstSync, actions)
	})
	if err != nil {
		metrics.SyncBatchesTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return 0, err
	}
	metrics.SyncBatchesTotal.WithLabelValues(metrics.ResultCommitted).Inc()
	for _, action := range actions {
		metrics.SyncActionsTotal.WithLabelValues(action.Kind()).Inc()
	}
	return newSyncedAt, nil
}

func (s *service) UpdateEquipped(ctx context.Context, userID string, uid int, team domain.Team, equipped bool) (int64, error) {
	return s.manipulate(ctx, userID, nil, false, func(inv *inventory.Inventory, _ bool) error {
		if equipped {
			return inv.Equip(uid, team)
		}
		return inv.Unequip(uid, team)
	})
}

// manipulate is the single write path: lock the user, load the snapshot,
// run fn against the rebuilt aggregate, then commit the export guarded by
// the synced-at timestamp read at the start. checkSyncedAt additionally
// compares the client's timestamp before running fn.
func (s *service) manipulate(ctx context.Context, userID string, clientSyncedAt *int64, checkSyncedAt bool, fn func(inv *inventory.Inventory, firstSync bool) error) (int64, error) {
	lock := s.locks.GetLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.EnsureUser(ctx, userID); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToEnsureUser, err)
	}
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToLoadUser, err)
	}

	if checkSyncedAt && !timestampsEqual(clientSyncedAt, u.SyncedAt) {
		metrics.SyncConflictsTotal.Inc()
		return 0, domain.ErrSyncConflict
	}

	items, err := decodeSnapshot(u.Inventory)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToLoadInventory, err)
	}
	inv, err := inventory.New(s.catalog, items, s.cfg.MaxItems, s.cfg.StorageUnitMaxItems)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToLoadInventory, err)
	}

	firstSync := u.SyncedAt == nil
	if err := fn(inv, firstSync); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToApplyActions, err)
	}

	snapshot, err := json.Marshal(inv.Export())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToEncodeSnapshot, err)
	}

	newSyncedAt := s.now().UnixMilli()
	// Consecutive syncs within one millisecond must still move the clock
	// forward, or the next conflict check could not tell them apart.
	if u.SyncedAt != nil && newSyncedAt <= *u.SyncedAt {
		newSyncedAt = *u.SyncedAt + 1
	}

	if err := s.repo.UpdateInventory(ctx, userID, snapshot, u.SyncedAt, newSyncedAt); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitSnapshot, err)
	}
	s.cache.Invalidate(userID)

	logger.FromContext(ctx).Info("inventory committed",
		"userId", userID,
		"items", inv.TopLevelCount(),
		"syncedAt", newSyncedAt)
	return newSyncedAt, nil
}

func (s *service) GetInventory(ctx context.Context, userID string) (*InventoryView, error) {
	if view, ok := s.cache.Get(userID); ok {
		metrics.CacheHitsTotal.Inc()
		return view, nil
	}
	metrics.CacheMissesTotal.Inc()

	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := decodeSnapshot(u.Inventory)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadInventory, err)
	}

	view := &InventoryView{
		UserID:   userID,
		Items:    make([]InventoryItemView, 0, len(items)),
		SyncedAt: u.SyncedAt,
	}
	for _, item := range items {
		entry := InventoryItemView{InventoryItem: item}
		if def, err := s.catalog.Get(item.ID); err == nil {
			entry.Name = def.Name
			entry.Type = def.Type
		}
		view.Items = append(view.Items, entry)
	}

	s.cache.Set(userID, view)
	return view, nil
}

func (s *service) GetCacheStats() CacheStats {
	return CacheStats{Entries: s.cache.Len()}
}

func decodeSnapshot(raw json.RawMessage) ([]domain.InventoryItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []domain.InventoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func timestampsEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
