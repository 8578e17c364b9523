package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - общий первичный ключ и таймстемпы.
// UUID генерируется в приложении, чтобы схема не зависела от расширений БД.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All перечисляет модели для AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&EmailVerificationCode{},
		&PasswordResetCode{},
		&Comic{},
		&Chapter{},
		&ChapterPage{},
		&UserPurchase{},
		&Transaction{},
		&CurrencyLedger{},
		&WithdrawRequest{},
		&Upload{},
	}
}
