package models

import "time"

// EmailVerificationCode - одноразовый код подтверждения email (хранится хеш)
type EmailVerificationCode struct {
	BaseModel
	UserID     string    `gorm:"type:varchar(36);not null;index:idx_email_code_lookup"`
	CodeHash   string    `gorm:"type:varchar(64);not null;index:idx_email_code_lookup"`
	ExpiresAt  time.Time `gorm:"not null"`
	VerifiedAt *time.Time
}

// PasswordResetCode - одноразовый код сброса пароля (хранится хеш)
type PasswordResetCode struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_reset_code_lookup"`
	CodeHash  string    `gorm:"type:varchar(64);not null;index:idx_reset_code_lookup"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time
}
