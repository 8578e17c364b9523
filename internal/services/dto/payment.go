package dto

import "time"

type PurchaseChapterRequest struct {
	ChapterID string `json:"chapterId" validate:"required"`
}

// PurchaseResponse - AlreadyOwned=true для повторной покупки
type PurchaseResponse struct {
	ChapterID     string  `json:"chapterId"`
	AlreadyOwned  bool    `json:"alreadyOwned"`
	TransactionID *string `json:"transactionId"`
}

type TransactionQuery struct {
	PageQuery
	Status string `form:"status" json:"status" validate:"omitempty,transaction_status"`
}

type TransactionDTO struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Type         string    `json:"type"`
	ChapterID    *string   `json:"chapterId"`
	Amount       int64     `json:"amount"`
	CurrencyType int       `json:"currencyType"`
	Status       string    `json:"status"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
