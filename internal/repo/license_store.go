package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"keywarden/internal/models"
)

var (
	ErrNotFound             = errors.New("license not found")
	ErrDuplicateFingerprint = errors.New("duplicate fingerprint")
)

// Filter для выборки в отчёты (см. List).
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActivated Filter = "activated"
	FilterExpired   Filter = "expired"
	FilterRevoked   Filter = "revoked"
)

// ParseFilter разбирает пользовательское значение фильтра;
// пустая строка трактуется как "all".
func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterActivated, FilterExpired, FilterRevoked:
		return Filter(s), true
	}
	return "", false
}

type LicenseStore struct{ db *gorm.DB }

func NewLicenseStore(db *gorm.DB) *LicenseStore { return &LicenseStore{db: db} }

// Create вставляет новую запись. Уникальность отпечатка гарантирует
// uniqueIndex: повтор отдаём как ErrDuplicateFingerprint, чтобы генератор
// мог перегенерировать ключ, не перезаписывая чужую запись.
func (s *LicenseStore) Create(ctx context.Context, rec *models.License) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateFingerprint
		}
		return err
	}
	return nil
}

func (s *LicenseStore) Get(ctx context.Context, fingerprint string) (*models.License, error) {
	var rec models.License
	err := s.db.WithContext(ctx).Where("key_hash = ?", fingerprint).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Activate — единственная мутация жизненного цикла: атомарный условный
// UPDATE по activated_at IS NULL. Возвращает, применилась ли запись;
// false означает, что привязку успел выставить конкурирующий запрос.
func (s *LicenseStore) Activate(ctx context.Context, fingerprint, activationID string, at int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.License{}).
		Where("key_hash = ?", fingerprint).
		Where("activated_at IS NULL").
		Updates(map[string]any{
			"activated_at":  at,
			"activation_id": activationID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Revoke выставляет флаг отзыва. Идемпотентен: повторный отзыв — не ошибка.
func (s *LicenseStore) Revoke(ctx context.Context, fingerprint string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.License{}).
		Where("key_hash = ?", fingerprint).
		Update("revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List — выборка для админ-отчётов, свежие записи первыми.
// now (unix-секунды) нужен фильтрам activated/expired.
func (s *LicenseStore) List(ctx context.Context, f Filter, now int64) ([]models.License, error) {
	q := s.db.WithContext(ctx).Model(&models.License{})
	switch f {
	case FilterActivated:
		q = q.Where("activated_at IS NOT NULL AND revoked = ? AND expires_at > ?", false, now)
	case FilterExpired:
		q = q.Where("expires_at <= ? AND revoked = ?", now, false)
	case FilterRevoked:
		q = q.Where("revoked = ?", true)
	case FilterAll, "":
		// без условий
	default:
		return nil, errors.New("unknown filter: " + string(f))
	}
	var out []models.License
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
