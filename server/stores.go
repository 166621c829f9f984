package server

import (
	"context"

	"keywarden/internal/models"
	"keywarden/internal/repo"
)

// Store — общий контракт хранилища лицензий для обоих бэкендов
// (gorm и in-memory). Покрывает нужды activation, adminapi и issuer.
type Store interface {
	Create(ctx context.Context, rec *models.License) error
	Get(ctx context.Context, fingerprint string) (*models.License, error)
	Activate(ctx context.Context, fingerprint, activationID string, at int64) (bool, error)
	Revoke(ctx context.Context, fingerprint string) (bool, error)
	List(ctx context.Context, f repo.Filter, now int64) ([]models.License, error)
}

// newLicenseStore выбирает бэкенд по наличию БД. Без БД записи живут
// до рестарта процесса — режим для разработки и тестов.
func (a *App) newLicenseStore() Store {
	if a.db != nil {
		return repo.NewLicenseStore(a.db)
	}
	return repo.NewMemLicenseStore()
}
