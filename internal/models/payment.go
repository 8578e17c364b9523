package models

import "time"

// UserPurchase - запись о праве доступа. Составной ключ - гарантия идемпотентности покупки.
type UserPurchase struct {
	UserID       string       `gorm:"type:varchar(36);primaryKey"`
	PurchaseType PurchaseType `gorm:"type:varchar(20);primaryKey"`
	ReferenceID  string       `gorm:"type:varchar(36);primaryKey"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
}

// Transaction - журнал платежей. Меняется только статус (ручное подтверждение админом).
type Transaction struct {
	BaseModel
	UserID       string            `gorm:"type:varchar(36);not null;index"`
	Type         TransactionType   `gorm:"type:varchar(20);not null"`
	ChapterID    *string           `gorm:"type:varchar(36);index"`
	Amount       int64             `gorm:"not null"`
	CurrencyType int               `gorm:"not null;default:0"`
	Status       TransactionStatus `gorm:"type:varchar(20);not null;index"`
	Provider     string            `gorm:"type:varchar(50);not null"`
}
