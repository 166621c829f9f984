package repo

import (
	"context"
	"sort"
	"sync"

	"keywarden/internal/models"
)

// MemLicenseStore — хранилище в памяти для режима без БД и для тестов.
// Повторяет контракт LicenseStore; мутации сериализованы мьютексом,
// поэтому Activate так же атомарен, как условный UPDATE.
type MemLicenseStore struct {
	mu     sync.Mutex
	nextID uint
	byHash map[string]*models.License
}

func NewMemLicenseStore() *MemLicenseStore {
	return &MemLicenseStore{byHash: make(map[string]*models.License)}
}

func (m *MemLicenseStore) Create(_ context.Context, rec *models.License) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHash[rec.KeyHash]; ok {
		return ErrDuplicateFingerprint
	}
	m.nextID++
	rec.ID = m.nextID
	cp := *rec
	m.byHash[rec.KeyHash] = &cp
	return nil
}

func (m *MemLicenseStore) Get(_ context.Context, fingerprint string) (*models.License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byHash[fingerprint]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemLicenseStore) Activate(_ context.Context, fingerprint, activationID string, at int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byHash[fingerprint]
	if !ok || rec.ActivatedAt != nil {
		return false, nil
	}
	rec.ActivatedAt = &at
	rec.ActivationID = &activationID
	return true, nil
}

func (m *MemLicenseStore) Revoke(_ context.Context, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byHash[fingerprint]
	if !ok {
		return false, nil
	}
	rec.Revoked = true
	return true, nil
}

func (m *MemLicenseStore) List(_ context.Context, f Filter, now int64) ([]models.License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.License, 0, len(m.byHash))
	for _, rec := range m.byHash {
		keep := false
		switch f {
		case FilterActivated:
			keep = rec.ActivatedAt != nil && !rec.Revoked && rec.ExpiresAt > now
		case FilterExpired:
			keep = rec.ExpiresAt <= now && !rec.Revoked
		case FilterRevoked:
			keep = rec.Revoked
		default:
			keep = true
		}
		if keep {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
