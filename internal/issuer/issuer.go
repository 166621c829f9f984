package issuer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keywarden/internal/keycodec"
	"keywarden/internal/models"
	"keywarden/internal/repo"
)

// maxAttempts — предел перегенераций при коллизии отпечатка.
const maxAttempts = 10

// DefaultValidityDays — срок действия по умолчанию.
const DefaultValidityDays = 30

// ErrGenerationExhausted — не удалось получить уникальный отпечаток
// за maxAttempts попыток. Фатально для оператора.
var ErrGenerationExhausted = errors.New("failed to generate unique license after 10 attempts")

// Store — что нужно генератору от хранилища.
type Store interface {
	Create(ctx context.Context, rec *models.License) error
}

type Issuer struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Issuer { return &Issuer{store: store, now: time.Now} }

// NewWithClock — для тестов сроков.
func NewWithClock(store Store, now func() time.Time) *Issuer {
	return &Issuer{store: store, now: now}
}

// Issued — результат выпуска. Key существует только здесь и в
// админском экспорте; в хранилище уходит один отпечаток.
type Issued struct {
	Key         string
	Fingerprint string
	ExpiresAt   int64
}

// Issue выпускает одну лицензию: ключ → отпечаток → запись.
// Коллизия отпечатка не перезаписывает чужую запись, а ведёт
// к перегенерации ключа; попытки ограничены.
func (i *Issuer) Issue(ctx context.Context, days int, metadata string) (*Issued, error) {
	if days <= 0 {
		days = DefaultValidityDays
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		key, err := keycodec.Generate()
		if err != nil {
			return nil, err
		}
		now := i.now().Unix()
		rec := &models.License{
			KeyHash:   keycodec.Fingerprint(key),
			CreatedAt: now,
			ExpiresAt: now + int64(days)*86400,
			Metadata:  metadata,
		}
		err = i.store.Create(ctx, rec)
		if errors.Is(err, repo.ErrDuplicateFingerprint) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("issuer: store license: %w", err)
		}
		return &Issued{Key: key, Fingerprint: rec.KeyHash, ExpiresAt: rec.ExpiresAt}, nil
	}
	return nil, ErrGenerationExhausted
}

// Bulk выпускает n лицензий подряд; первая же ошибка прерывает серию.
func (i *Issuer) Bulk(ctx context.Context, n, days int, metadata string) ([]Issued, error) {
	out := make([]Issued, 0, n)
	for k := 0; k < n; k++ {
		one, err := i.Issue(ctx, days, metadata)
		if err != nil {
			return out, err
		}
		out = append(out, *one)
	}
	return out, nil
}
