package models

import "time"

type User struct {
	BaseModel
	FullName      string     `gorm:"type:varchar(255);not null"`
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  *string    `gorm:"type:varchar(255)"` // nil - аккаунт только через соц. вход
	Role          UserRole   `gorm:"type:varchar(20);not null;default:'user'"`
	Status        UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	EmailVerified bool       `gorm:"not null;default:false"`
	AvatarURL     *string    `gorm:"type:varchar(1024)"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// RefreshToken хранит только SHA-256 от секрета
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Revoked   bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
