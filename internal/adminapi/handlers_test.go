package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keywarden/internal/keycodec"
	"keywarden/internal/models"
	"keywarden/internal/repo"
)

const day = int64(86400)

const testSecret = "s3cret"

// seedStore кладёт три записи: действующую, истёкшую и отозванную.
// Сроки считаются от реального now — им пользуется Handler.
func seedStore(t *testing.T) (*repo.MemLicenseStore, []string, int64) {
	t.Helper()
	store := repo.NewMemLicenseStore()
	ctx := context.Background()
	base := time.Now().Unix()

	fps := make([]string, 0, 3)
	for i, rec := range []*models.License{
		{CreatedAt: base - 30, ExpiresAt: base + 100*day},                // issued
		{CreatedAt: base - 20, ExpiresAt: base - day},                    // expired
		{CreatedAt: base - 10, ExpiresAt: base + 100*day, Revoked: true}, // revoked
	} {
		key, err := keycodec.Generate()
		require.NoError(t, err)
		rec.KeyHash = keycodec.Fingerprint(key)
		rec.Metadata = fmt.Sprintf("seed-%d", i)
		require.NoError(t, store.Create(ctx, rec))
		fps = append(fps, rec.KeyHash)
	}
	return store, fps, base
}

func newAdminRouter(store Store) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	RegisterRoutes(r, store, testSecret)
	return r
}

func TestListRequiresSecret(t *testing.T) {
	store, _, _ := seedStore(t)
	r := newAdminRouter(store)

	for _, secret := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/list_licenses", nil)
		if secret != "" {
			req.Header.Set(SecretHeader, secret)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestListAllNewestFirst(t *testing.T) {
	store, _, base := seedStore(t)
	r := newAdminRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/list_licenses", nil)
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Licenses, 3)
	assert.Equal(t, base-10, resp.Licenses[0].CreatedAt)
	assert.Equal(t, base-30, resp.Licenses[2].CreatedAt)
}

func TestListFilters(t *testing.T) {
	store, fps, base := seedStore(t)
	// активируем первую, чтобы фильтр activated был непустым
	_, err := store.Activate(context.Background(), fps[0], "pc-1", base)
	require.NoError(t, err)
	r := newAdminRouter(store)

	cases := []struct {
		filter string
		want   int
	}{
		{"all", 3},
		{"", 3},
		{"activated", 1},
		{"expired", 1},
		{"revoked", 1},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/list_licenses?filter="+tc.filter, nil)
		req.Header.Set(SecretHeader, testSecret)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "filter=%q", tc.filter)

		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Licenses, tc.want, "filter=%q", tc.filter)
	}

	req := httptest.NewRequest(http.MethodGet, "/list_licenses?filter=bogus", nil)
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevoke(t *testing.T) {
	store, fps, _ := seedStore(t)
	r := newAdminRouter(store)

	body, _ := json.Marshal(revokeRequest{Fingerprint: fps[0]})
	req := httptest.NewRequest(http.MethodPost, "/revoke_license", bytes.NewReader(body))
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := store.Get(context.Background(), fps[0])
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	// неизвестный отпечаток — 404
	body, _ = json.Marshal(revokeRequest{Fingerprint: "deadbeef"})
	req = httptest.NewRequest(http.MethodPost, "/revoke_license", bytes.NewReader(body))
	req.Header.Set(SecretHeader, testSecret)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// без отпечатка — 400
	req = httptest.NewRequest(http.MethodPost, "/revoke_license", bytes.NewBufferString(`{}`))
	req.Header.Set(SecretHeader, testSecret)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
