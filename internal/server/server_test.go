package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/handler"
	"github.com/loadoutlab/armory/internal/sync"
	"github.com/loadoutlab/armory/internal/testing/leaktest"
	"github.com/loadoutlab/armory/internal/user"
)

const routeTestUserID = "7a9d1f9e-30cb-46dd-9d4e-2b9f8f23f6f1"

type fakePool struct {
	pingErr error
}

func (f *fakePool) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakePool) Close()                         {}

type routeService struct{}

func (routeService) SyncActions(ctx context.Context, userID string, syncedAt *int64, actions []sync.Action) (int64, error) {
	return 42, nil
}

func (routeService) UpdateEquipped(ctx context.Context, userID string, uid int, team domain.Team, equipped bool) (int64, error) {
	return 42, nil
}

func (routeService) GetInventory(ctx context.Context, userID string) (*user.InventoryView, error) {
	return &user.InventoryView{UserID: userID}, nil
}

func (routeService) GetCacheStats() user.CacheStats { return user.CacheStats{} }

func newTestRouter(pool *fakePool) http.Handler {
	srv := NewServer(0, testAPIKey, pool, routeService{})
	return srv.httpServer.Handler
}

func TestRouting(t *testing.T) {
	router := newTestRouter(&fakePool{})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		withKey    bool
		withUser   bool
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/healthz", "", false, false, http.StatusOK},
		{"readiness is public", http.MethodGet, "/readyz", "", false, false, http.StatusOK},
		{"version is public", http.MethodGet, "/version", "", false, false, http.StatusOK},
		{"metrics is public", http.MethodGet, "/metrics", "", false, false, http.StatusOK},
		{"sync requires api key", http.MethodPost, "/api/action/sync", `{"actions":[{"type":"remove-all-items"}]}`, false, true, http.StatusUnauthorized},
		{"sync requires identity", http.MethodPost, "/api/action/sync", `{"actions":[{"type":"remove-all-items"}]}`, true, false, http.StatusUnauthorized},
		{"sync", http.MethodPost, "/api/action/sync", `{"actions":[{"type":"remove-all-items"}]}`, true, true, http.StatusOK},
		{"equip", http.MethodPost, "/api/inventory-equip", `{"index":0}`, true, true, http.StatusNoContent},
		{"inventory read", http.MethodGet, "/api/inventory/" + routeTestUserID, "", true, false, http.StatusOK},
		{"cache stats", http.MethodGet, "/api/admin/cache/stats", "", true, false, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nope", "", true, false, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.withKey {
				req.Header.Set(HeaderAPIKey, testAPIKey)
			}
			if tt.withUser {
				req.Header.Set(handler.HeaderUserID, routeTestUserID)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouting_SyncResponseBody(t *testing.T) {
	router := newTestRouter(&fakePool{})

	req := httptest.NewRequest(http.MethodPost, "/api/action/sync",
		strings.NewReader(`{"actions":[{"type":"remove-all-items"}]}`))
	req.Header.Set(HeaderAPIKey, testAPIKey)
	req.Header.Set(handler.HeaderUserID, routeTestUserID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.SyncResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.SyncedAt)
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
}

func TestRouting_ReadinessFailsWhenDatabaseDown(t *testing.T) {
	router := newTestRouter(&fakePool{pingErr: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServerLifecycle(t *testing.T) {
	leaktest.CheckNone(t, func() {
		srv := NewServer(0, testAPIKey, &fakePool{}, routeService{})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()
		time.Sleep(50 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, http.ErrServerClosed)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not shut down")
		}
	})
}
