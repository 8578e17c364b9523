package models

type WithdrawRequest struct {
	BaseModel
	UserID          string         `gorm:"type:varchar(36);not null;index"`
	Amount          int64          `gorm:"not null"`
	BankName        string         `gorm:"type:varchar(255);not null"`
	BankAccount     string         `gorm:"type:varchar(100);not null"`
	BankAccountName string         `gorm:"type:varchar(255);not null"`
	Status          WithdrawStatus `gorm:"type:varchar(20);not null;index"`
	AdminNote       *string        `gorm:"type:varchar(1000)"`
}
