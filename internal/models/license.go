package models

// License — серверная запись о лицензии. Плейнтекст ключа сюда
// никогда не попадает: хранится только sha256-отпечаток.
type License struct {
	ID uint `gorm:"primaryKey" json:"id"`

	KeyHash   string `gorm:"uniqueIndex;size:64;not null" json:"key_hash"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
	ExpiresAt int64  `gorm:"not null" json:"expires_at"`

	// Заполняются вместе при первой успешной активации, далее неизменны.
	ActivatedAt  *int64  `json:"activated_at"`
	ActivationID *string `gorm:"size:128" json:"activation_id"`

	Revoked  bool   `gorm:"not null;default:false" json:"revoked"`
	Metadata string `gorm:"type:text" json:"metadata"`
}

func (License) TableName() string { return "licenses" }

// Activated — была ли лицензия уже привязана к установке.
func (l *License) Activated() bool { return l.ActivatedAt != nil }

// ExpiredAt проверяет истечение на момент now (unix-секунды).
func (l *License) ExpiredAt(now int64) bool { return now > l.ExpiresAt }

// BoundTo — совпадает ли привязка с данным installation id.
func (l *License) BoundTo(installID string) bool {
	return l.ActivationID != nil && *l.ActivationID == installID
}
