package activation

import (
	"context"
	"errors"
	"strings"
	"time"

	"keywarden/internal/keycodec"
	"keywarden/internal/models"
	"keywarden/internal/repo"
)

// Store — минимальный контракт хранилища, нужный движку активации.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*models.License, error)
	Activate(ctx context.Context, fingerprint, activationID string, at int64) (applied bool, err error)
}

// Verdict — исход проверки лицензии.
type Verdict int

const (
	VerdictMissing Verdict = iota
	VerdictInvalid
	VerdictRevoked
	VerdictExpired
	VerdictActivated
	VerdictWelcomeBack
	VerdictConflict
)

// Decision — ответ движка. ExpiresAt заполнен только для принятых решений.
type Decision struct {
	Verdict   Verdict
	Message   string
	ExpiresAt int64
}

// Accepted — успешные исходы: первая активация и повторный визит
// с той же установки.
func (d Decision) Accepted() bool {
	return d.Verdict == VerdictActivated || d.Verdict == VerdictWelcomeBack
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceWithClock — для тестов истечения срока.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Validate решает судьбу предъявленного ключа. Порядок проверок —
// контракт: отзыв раньше истечения, истечение раньше проверки привязки.
// Отозванная и одновременно истёкшая лицензия отвечает "revoked".
// Ошибка возвращается только при недоступности хранилища и никогда
// не маскируется под отказ в авторизации.
func (s *Service) Validate(ctx context.Context, submittedKey, installationID string) (Decision, error) {
	submittedKey = strings.TrimSpace(submittedKey)
	installationID = strings.TrimSpace(installationID)
	if submittedKey == "" {
		return Decision{Verdict: VerdictMissing, Message: "Missing license."}, nil
	}

	fp := keycodec.Fingerprint(submittedKey)
	rec, err := s.store.Get(ctx, fp)
	if errors.Is(err, repo.ErrNotFound) {
		return Decision{Verdict: VerdictInvalid, Message: "Invalid license."}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	now := s.now().Unix()
	if rec.Revoked {
		return Decision{Verdict: VerdictRevoked, Message: "License revoked."}, nil
	}
	if rec.ExpiredAt(now) {
		return Decision{Verdict: VerdictExpired, Message: "License expired."}, nil
	}

	if !rec.Activated() {
		applied, err := s.store.Activate(ctx, fp, installationID, now)
		if err != nil {
			return Decision{}, err
		}
		if applied {
			return Decision{Verdict: VerdictActivated, Message: "License activated.", ExpiresAt: rec.ExpiresAt}, nil
		}
		// Гонку первой активации выиграл конкурирующий запрос —
		// перечитываем запись и решаем по фактической привязке.
		rec, err = s.store.Get(ctx, fp)
		if err != nil {
			return Decision{}, err
		}
	}

	if rec.BoundTo(installationID) {
		return Decision{Verdict: VerdictWelcomeBack, Message: "Welcome back!", ExpiresAt: rec.ExpiresAt}, nil
	}
	return Decision{Verdict: VerdictConflict, Message: "License already used on another device."}, nil
}
