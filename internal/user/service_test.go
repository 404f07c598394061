package user

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadoutlab/armory/internal/config"
	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/economy"
	"github.com/loadoutlab/armory/internal/rule"
	"github.com/loadoutlab/armory/internal/sync"
)

const testUserID = "5f64b9a1-6f0e-41d3-9f20-0d7a4f5e310b"

func serviceCatalog(t *testing.T) economy.Catalog {
	t.Helper()
	catalog, err := economy.NewCatalog([]domain.ItemDef{
		{ID: 10, Name: "AK-47 | Redline", Category: "rifle", Type: domain.TypeWeapon, Model: "ak-47", StatTrak: true, NameTag: true, Stickers: 4},
		{ID: 11, Name: "Desert Eagle | Blaze", Category: "pistol", Type: domain.TypeWeapon, Model: "deagle", StatTrak: true, NameTag: true, Stickers: 4},
		{ID: 70, Name: "Music Kit", Type: domain.TypeMusicKit, Model: "valve"},
	})
	require.NoError(t, err)
	return catalog
}

func newTestService(t *testing.T) (*service, *FakeRepository) {
	t.Helper()
	catalog := serviceCatalog(t)
	repo := NewFakeRepository()
	rules := rule.NewConfigProvider(&config.Config{InventoryItemAllowEdit: true})
	svc := NewService(repo, catalog, sync.NewDispatcher(catalog, rules), ServiceConfig{
		MaxItems:            16,
		StorageUnitMaxItems: 4,
		CacheSize:           8,
		CacheTTL:            time.Minute,
	}).(*service)
	return svc, repo
}

func TestSyncActions_FirstSync(t *testing.T) {
	svc, repo := newTestService(t)

	syncedAt, err := svc.SyncActions(context.Background(), testUserID, nil, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 10}},
	})
	require.NoError(t, err)
	assert.Positive(t, syncedAt)

	u, err := repo.GetUser(context.Background(), testUserID)
	require.NoError(t, err)
	require.NotNil(t, u.SyncedAt)
	assert.Equal(t, syncedAt, *u.SyncedAt)
	assert.NotEmpty(t, u.Inventory)
}

func TestSyncActions_CacheImportOnlyOnFirstSync(t *testing.T) {
	svc, _ := newTestService(t)
	cached := &sync.AddFromCacheAction{Items: []domain.InventoryItem{{ID: 10}, {ID: 11}}}

	syncedAt, err := svc.SyncActions(context.Background(), testUserID, nil, []sync.Action{cached})
	require.NoError(t, err)

	view, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)

	// The same action on a later sync is a no-op.
	_, err = svc.SyncActions(context.Background(), testUserID, &syncedAt, []sync.Action{cached})
	require.NoError(t, err)

	view, err = svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
}

func TestSyncActions_Conflict(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SeedInventory(testUserID, []domain.InventoryItem{{UID: 0, ID: 10}}, 100)

	tests := []struct {
		name     string
		syncedAt *int64
	}{
		{"client never synced", nil},
		{"client is stale", int64Ptr(99)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SyncActions(context.Background(), testUserID, tt.syncedAt, []sync.Action{
				&sync.AddAction{Item: sync.ClientItem{ID: 11}},
			})
			assert.ErrorIs(t, err, domain.ErrSyncConflict)
		})
	}

	// Nothing was applied.
	view, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestSyncActions_MatchingTimestampCommits(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.SyncActions(context.Background(), testUserID, nil, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 10}},
	})
	require.NoError(t, err)

	second, err := svc.SyncActions(context.Background(), testUserID, &first, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 11}},
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	view, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
}

func TestSyncActions_TimestampAlwaysAdvances(t *testing.T) {
	svc, _ := newTestService(t)
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	first, err := svc.SyncActions(context.Background(), testUserID, nil, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, frozen.UnixMilli(), first)

	// The wall clock has not moved, the timestamp still must.
	second, err := svc.SyncActions(context.Background(), testUserID, &first, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 11}},
	})
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestSyncActions_FailedBatchLeavesStateUntouched(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SeedInventory(testUserID, []domain.InventoryItem{{UID: 0, ID: 10}}, 100)
	ts := int64(100)

	_, err := svc.SyncActions(context.Background(), testUserID, &ts, []sync.Action{
		&sync.RemoveAction{UID: 0},
		&sync.RemoveAction{UID: 42},
	})
	require.ErrorIs(t, err, domain.ErrUIDNotFound)

	u, err := repo.GetUser(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, ts, *u.SyncedAt, "timestamp unchanged after a rejected batch")

	view, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1, "the partial remove was discarded")
}

func TestSyncActions_CommitFailurePropagates(t *testing.T) {
	svc, repo := newTestService(t)
	repo.UpdateErr = domain.ErrDatabaseError

	_, err := svc.SyncActions(context.Background(), testUserID, nil, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 10}},
	})
	assert.ErrorIs(t, err, domain.ErrDatabaseError)
}

func TestUpdateEquipped_SkipsTimestampCheck(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SeedInventory(testUserID, []domain.InventoryItem{{UID: 0, ID: 10}}, 100)

	// No client timestamp involved: the game server path always applies.
	syncedAt, err := svc.UpdateEquipped(context.Background(), testUserID, 0, domain.TeamT, true)
	require.NoError(t, err)
	assert.Greater(t, syncedAt, int64(100))

	view, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].EquippedT)

	_, err = svc.UpdateEquipped(context.Background(), testUserID, 0, domain.TeamT, false)
	require.NoError(t, err)

	view, err = svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.False(t, view.Items[0].EquippedT)
}

func TestGetInventory_EnrichesFromCatalog(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SeedInventory(testUserID, []domain.InventoryItem{
		{UID: 0, ID: 10},
		{UID: 1, ID: 9999}, // not in the catalog anymore
	}, 100)

	view, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "AK-47 | Redline", view.Items[0].Name)
	assert.Equal(t, domain.TypeWeapon, view.Items[0].Type)
	assert.Empty(t, view.Items[1].Name, "unknown ids pass through unenriched")
	require.NotNil(t, view.SyncedAt)
	assert.Equal(t, int64(100), *view.SyncedAt)
}

func TestGetInventory_UserNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetInventory(context.Background(), testUserID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetInventory_CachesAndInvalidatesOnWrite(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SeedInventory(testUserID, []domain.InventoryItem{{UID: 0, ID: 10}}, 100)

	first, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	second, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Same(t, first, second, "second read is served from cache")
	assert.Equal(t, 1, svc.GetCacheStats().Entries)

	ts := int64(100)
	_, err = svc.SyncActions(context.Background(), testUserID, &ts, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 11}},
	})
	require.NoError(t, err)

	third, err := svc.GetInventory(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, third.Items, 2, "write invalidated the cached view")
}

func TestSyncActions_ConcurrentWritesAreSerialized(t *testing.T) {
	svc, _ := newTestService(t)

	syncedAt, err := svc.SyncActions(context.Background(), testUserID, nil, []sync.Action{
		&sync.AddAction{Item: sync.ClientItem{ID: 10}},
	})
	require.NoError(t, err)
	_ = syncedAt

	// Concurrent equip toggles share the per-user lock; none may hit the
	// repository's synced-at guard.
	const workers = 8
	var wg stdsync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(equip bool) {
			defer wg.Done()
			_, err := svc.UpdateEquipped(context.Background(), testUserID, 0, domain.TeamCT, equip)
			errs <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func int64Ptr(n int64) *int64 { return &n }
