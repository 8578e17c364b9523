package models

type UserStatus string
type UserRole string
type PurchaseType string
type TransactionType string
type TransactionStatus string
type LedgerEntryType string
type WithdrawStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"

	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	PurchaseTypeChapter PurchaseType = "CHAPTER"

	TransactionTypeChapter TransactionType = "CHAPTER"
	TransactionTypeTopUp   TransactionType = "TOPUP"

	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusFailed  TransactionStatus = "FAILED"

	// ProviderManual - внутренняя оплата (кошелек / ручное подтверждение)
	ProviderManual = "MANUAL"

	// CurrencyCoin - внутренняя валюта платформы
	CurrencyCoin = 0

	LedgerCredit LedgerEntryType = "CREDIT"
	LedgerDebit  LedgerEntryType = "DEBIT"

	WithdrawPending  WithdrawStatus = "PENDING"
	WithdrawApproved WithdrawStatus = "APPROVED"
	WithdrawRejected WithdrawStatus = "REJECTED"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusSuccess, TransactionStatusPending, TransactionStatusFailed:
		return true
	}
	return false
}

func (t LedgerEntryType) IsValid() bool {
	return t == LedgerCredit || t == LedgerDebit
}

func (s WithdrawStatus) IsValid() bool {
	switch s {
	case WithdrawPending, WithdrawApproved, WithdrawRejected:
		return true
	}
	return false
}
