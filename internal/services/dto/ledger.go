package dto

import "time"

// CreateLedgerEntryRequest - ручная корректировка баланса админом
type CreateLedgerEntryRequest struct {
	UserID      string  `json:"userId" validate:"required"`
	EntryType   string  `json:"entryType" validate:"required,ledger_entry_type"`
	Amount      int64   `json:"amount" validate:"gt=0"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type LedgerEntryDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	EntryType   string    `json:"entryType"`
	Amount      int64     `json:"amount"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BalanceDTO struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}
