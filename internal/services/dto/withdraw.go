package dto

import "time"

type CreateWithdrawRequest struct {
	Amount          int64  `json:"amount" validate:"gt=0"`
	BankName        string `json:"bankName" validate:"required,max=255"`
	BankAccount     string `json:"bankAccount" validate:"required,max=100"`
	BankAccountName string `json:"bankAccountName" validate:"required,max=255"`
}

type UpdateWithdrawRequest struct {
	Status    string  `json:"status" validate:"required,withdraw_status"`
	AdminNote *string `json:"adminNote" validate:"omitempty,max=1000"`
}

type WithdrawQuery struct {
	PageQuery
	Status string `form:"status" json:"status" validate:"omitempty,withdraw_status"`
}

type WithdrawDTO struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Amount          int64     `json:"amount"`
	BankName        string    `json:"bankName"`
	BankAccount     string    `json:"bankAccount"`
	BankAccountName string    `json:"bankAccountName"`
	Status          string    `json:"status"`
	AdminNote       *string   `json:"adminNote"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
