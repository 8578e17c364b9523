package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CurrencyLedger - неизменяемая запись движения валюты.
// Баланс нигде не хранится, только вычисляется суммой по журналу.
type CurrencyLedger struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	UserID      string          `gorm:"type:varchar(36);not null;index"`
	EntryType   LedgerEntryType `gorm:"type:varchar(10);not null"`
	Amount      int64           `gorm:"not null"`
	Description *string         `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index"`
}

func (CurrencyLedger) TableName() string {
	return "currency_ledger"
}

func (e *CurrencyLedger) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Signed возвращает сумму со знаком: CREDIT положительный, DEBIT отрицательный
func (e *CurrencyLedger) Signed() int64 {
	if e.EntryType == LedgerDebit {
		return -e.Amount
	}
	return e.Amount
}
