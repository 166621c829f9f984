package issuer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keywarden/internal/keycodec"
	"keywarden/internal/models"
	"keywarden/internal/repo"
)

func TestIssueStoresFingerprintOnly(t *testing.T) {
	store := repo.NewMemLicenseStore()
	iss := NewWithClock(store, func() time.Time { return time.Unix(1000, 0) })

	one, err := iss.Issue(context.Background(), 30, "customer-42")
	require.NoError(t, err)
	assert.Equal(t, keycodec.Fingerprint(one.Key), one.Fingerprint)
	assert.Equal(t, int64(1000+30*86400), one.ExpiresAt)

	rec, err := store.Get(context.Background(), one.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rec.CreatedAt)
	assert.Equal(t, one.ExpiresAt, rec.ExpiresAt)
	assert.Equal(t, "customer-42", rec.Metadata)
	assert.Nil(t, rec.ActivatedAt)
	assert.Nil(t, rec.ActivationID)
	assert.False(t, rec.Revoked)
	assert.NotContains(t, rec.KeyHash, one.Key, "plaintext must never reach the store")
}

func TestIssueDefaultValidity(t *testing.T) {
	store := repo.NewMemLicenseStore()
	iss := NewWithClock(store, func() time.Time { return time.Unix(0, 0) })

	one, err := iss.Issue(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultValidityDays*86400), one.ExpiresAt)
}

// dupStore имитирует коллизии отпечатка: первые fails вставок отдают
// ErrDuplicateFingerprint, дальше делегирует настоящему хранилищу.
type dupStore struct {
	inner *repo.MemLicenseStore
	fails int
	seen  int
}

func (d *dupStore) Create(ctx context.Context, rec *models.License) error {
	d.seen++
	if d.seen <= d.fails {
		return repo.ErrDuplicateFingerprint
	}
	return d.inner.Create(ctx, rec)
}

func TestIssueRetriesOnCollision(t *testing.T) {
	ds := &dupStore{inner: repo.NewMemLicenseStore(), fails: 9}
	iss := New(ds)

	one, err := iss.Issue(context.Background(), 30, "")
	require.NoError(t, err)
	assert.Equal(t, 10, ds.seen)
	assert.NotEmpty(t, one.Key)
}

func TestIssueExhaustsRetries(t *testing.T) {
	ds := &dupStore{inner: repo.NewMemLicenseStore(), fails: 10}
	iss := New(ds)

	_, err := iss.Issue(context.Background(), 30, "")
	require.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Equal(t, 10, ds.seen, "retries are bounded")
}

func TestBulk(t *testing.T) {
	store := repo.NewMemLicenseStore()
	iss := New(store)

	issued, err := iss.Bulk(context.Background(), 5, 30, "batch")
	require.NoError(t, err)
	require.Len(t, issued, 5)

	seen := make(map[string]struct{})
	for _, one := range issued {
		_, dup := seen[one.Key]
		assert.False(t, dup)
		seen[one.Key] = struct{}{}
	}
}

func TestAdminExport(t *testing.T) {
	dir := t.TempDir()
	export := AdminExport{Dir: filepath.Join(dir, "admin")}

	issued := []Issued{{Key: "AAAA-BBBB"}, {Key: "CCCC-DDDD"}}
	require.NoError(t, export.AppendKeys(issued))
	require.NoError(t, export.AppendKeys([]Issued{{Key: "EEEE-FFFF"}}))
	require.NoError(t, export.WriteSummary(issued, 30, "batch"))

	raw, err := os.ReadFile(filepath.Join(export.Dir, "keys.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAAA-BBBB", "CCCC-DDDD", "EEEE-FFFF"},
		strings.Fields(string(raw)), "keys.txt appends one key per line")

	raw, err = os.ReadFile(filepath.Join(export.Dir, "licenses.json"))
	require.NoError(t, err)
	var got struct {
		Licenses  []string `json:"licenses"`
		DaysValid int      `json:"days_valid"`
		Metadata  string   `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, []string{"AAAA-BBBB", "CCCC-DDDD"}, got.Licenses)
	assert.Equal(t, 30, got.DaysValid)
	assert.Equal(t, "batch", got.Metadata)
}
