package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/sync"
	"github.com/loadoutlab/armory/internal/user"
)

const testUserID = "c7f8a4d2-1e4b-4b6a-96a4-52f0f4a7d810"

// stubService implements user.Service with pluggable behavior per test.
type stubService struct {
	syncFn      func(ctx context.Context, userID string, syncedAt *int64, actions []sync.Action) (int64, error)
	equipFn     func(ctx context.Context, userID string, uid int, team domain.Team, equipped bool) (int64, error)
	inventoryFn func(ctx context.Context, userID string) (*user.InventoryView, error)
}

func (s *stubService) SyncActions(ctx context.Context, userID string, syncedAt *int64, actions []sync.Action) (int64, error) {
	return s.syncFn(ctx, userID, syncedAt, actions)
}

func (s *stubService) UpdateEquipped(ctx context.Context, userID string, uid int, team domain.Team, equipped bool) (int64, error) {
	return s.equipFn(ctx, userID, uid, team, equipped)
}

func (s *stubService) GetInventory(ctx context.Context, userID string) (*user.InventoryView, error) {
	return s.inventoryFn(ctx, userID)
}

func (s *stubService) GetCacheStats() user.CacheStats {
	return user.CacheStats{Entries: 3}
}

func postJSON(t *testing.T, h http.HandlerFunc, body string, withIdentity bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	if withIdentity {
		req = req.WithContext(WithUserID(req.Context(), testUserID))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestHandleSyncActions_OK(t *testing.T) {
	var gotSyncedAt *int64
	var gotActions []sync.Action
	svc := &stubService{
		syncFn: func(_ context.Context, userID string, syncedAt *int64, actions []sync.Action) (int64, error) {
			assert.Equal(t, testUserID, userID)
			gotSyncedAt = syncedAt
			gotActions = actions
			return 1234, nil
		},
	}

	body := `{"syncedAt":100,"actions":[{"type":"add","item":{"id":10}},{"type":"remove","uid":3}]}`
	rec := postJSON(t, HandleSyncActions(svc), body, true)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SyncResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1234), resp.SyncedAt)

	require.NotNil(t, gotSyncedAt)
	assert.Equal(t, int64(100), *gotSyncedAt)
	require.Len(t, gotActions, 2)
	assert.Equal(t, sync.ActionAdd, gotActions[0].Kind())
	assert.Equal(t, sync.ActionRemove, gotActions[1].Kind())
}

func TestHandleSyncActions_MissingIdentity(t *testing.T) {
	svc := &stubService{}
	rec := postJSON(t, HandleSyncActions(svc), `{"actions":[{"type":"remove-all-items"}]}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrMsgMissingUserID, decodeError(t, rec))
}

func TestHandleSyncActions_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"actions":`},
		{"no actions", `{"syncedAt":1}`},
		{"empty actions", `{"syncedAt":1,"actions":[]}`},
		{"oversized batch", `{"actions":[` + strings.Repeat(`{"type":"remove-all-items"},`, 64) + `{"type":"remove-all-items"}]}`},
		{"unknown action type", `{"actions":[{"type":"duplicate-items"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := postJSON(t, HandleSyncActions(svc), tt.body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleSyncActions_Conflict(t *testing.T) {
	svc := &stubService{
		syncFn: func(context.Context, string, *int64, []sync.Action) (int64, error) {
			return 0, domain.ErrSyncConflict
		},
	}
	rec := postJSON(t, HandleSyncActions(svc), `{"actions":[{"type":"remove-all-items"}]}`, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrMsgSyncConflictError, decodeError(t, rec))
}

func TestHandleEquipItem_OK(t *testing.T) {
	svc := &stubService{
		equipFn: func(_ context.Context, userID string, uid int, team domain.Team, equipped bool) (int64, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, 5, uid)
			assert.Equal(t, domain.TeamT, team)
			assert.True(t, equipped)
			return 1, nil
		},
	}
	rec := postJSON(t, HandleEquipItem(svc), `{"index":5,"csTeam":2}`, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleEquipItem_Unequip(t *testing.T) {
	svc := &stubService{
		equipFn: func(_ context.Context, _ string, _ int, team domain.Team, equipped bool) (int64, error) {
			assert.Equal(t, domain.TeamNone, team)
			assert.False(t, equipped)
			return 1, nil
		},
	}
	rec := postJSON(t, HandleEquipItem(svc), `{"index":0,"unequip":true}`, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleEquipItem_Errors(t *testing.T) {
	t.Run("invalid team", func(t *testing.T) {
		rec := postJSON(t, HandleEquipItem(&stubService{}), `{"index":0,"csTeam":1}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown uid", func(t *testing.T) {
		svc := &stubService{
			equipFn: func(context.Context, string, int, domain.Team, bool) (int64, error) {
				return 0, domain.ErrUIDNotFound
			},
		}
		rec := postJSON(t, HandleEquipItem(svc), `{"index":42}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrMsgUIDNotFoundError, decodeError(t, rec))
	})

	t.Run("missing identity", func(t *testing.T) {
		rec := postJSON(t, HandleEquipItem(&stubService{}), `{"index":0}`, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func getInventory(t *testing.T, svc user.Service, userID string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/inventory/{userId}", HandleGetInventory(svc))
	req := httptest.NewRequest(http.MethodGet, "/inventory/"+userID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleGetInventory_OK(t *testing.T) {
	syncedAt := int64(555)
	svc := &stubService{
		inventoryFn: func(_ context.Context, userID string) (*user.InventoryView, error) {
			assert.Equal(t, testUserID, userID)
			return &user.InventoryView{
				UserID: userID,
				Items: []user.InventoryItemView{
					{InventoryItem: domain.InventoryItem{UID: 0, ID: 10}, Name: "AK-47 | Redline", Type: domain.TypeWeapon},
				},
				SyncedAt: &syncedAt,
			}, nil
		},
	}

	rec := getInventory(t, svc, testUserID)
	require.Equal(t, http.StatusOK, rec.Code)

	var view user.InventoryView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, testUserID, view.UserID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "AK-47 | Redline", view.Items[0].Name)
	require.NotNil(t, view.SyncedAt)
	assert.Equal(t, syncedAt, *view.SyncedAt)
}

func TestHandleGetInventory_InvalidUserID(t *testing.T) {
	rec := getInventory(t, &stubService{}, "not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetInventory_NotFound(t *testing.T) {
	svc := &stubService{
		inventoryFn: func(context.Context, string) (*user.InventoryView, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	rec := getInventory(t, svc, testUserID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrMsgUserNotFoundError, decodeError(t, rec))
}

func TestHandleGetCacheStats(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	HandleGetCacheStats(&stubService{})(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats user.CacheStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 3, stats.Entries)
}

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{domain.ErrSyncConflict, http.StatusConflict, ErrMsgSyncConflictError},
		{domain.ErrEditForbidden, http.StatusForbidden, ErrMsgEditForbiddenError},
		{domain.ErrUserNotFound, http.StatusNotFound, ErrMsgUserNotFoundError},
		{domain.ErrItemNotFound, http.StatusBadRequest, ErrMsgItemNotFoundError},
		{domain.ErrUIDNotFound, http.StatusBadRequest, ErrMsgUIDNotFoundError},
		{domain.ErrInventoryFull, http.StatusBadRequest, ErrMsgInventoryFullError},
		{domain.ErrStorageUnitNotNamed, http.StatusBadRequest, ErrMsgStorageUnitUnnamedError},
		{domain.ErrRuleViolation, http.StatusBadRequest, ErrMsgRuleViolationError},
		{domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidRequestError},
		{domain.ErrDatabaseError, http.StatusInternalServerError, ErrMsgGenericServerError},
		{assert.AnError, http.StatusInternalServerError, ErrMsgGenericServerError},
		{nil, http.StatusInternalServerError, ErrMsgUnknownError},
	}
	for _, tt := range tests {
		status, msg := mapServiceErrorToUserMessage(tt.err)
		assert.Equal(t, tt.wantStatus, status)
		assert.Equal(t, tt.wantMsg, msg)
	}
}
