package repositories

import (
	"comicweb_backend/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository - журнал валюты. Только вставка и чтение.
type LedgerRepository interface {
	Append(db *gorm.DB, entry *models.CurrencyLedger) error
	// Balance - сумма CREDIT минус сумма DEBIT, считается в базе
	Balance(db *gorm.DB, userID string) (int64, error)
	ListByUser(db *gorm.DB, userID string, p Pagination) ([]models.CurrencyLedger, int64, error)
}

type ledgerRepository struct{}

func NewLedgerRepository() LedgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) Append(db *gorm.DB, entry *models.CurrencyLedger) error {
	return db.Create(entry).Error
}

func (r *ledgerRepository) Balance(db *gorm.DB, userID string) (int64, error) {
	var balance int64
	err := db.Model(&models.CurrencyLedger{}).
		Select("COALESCE(SUM(CASE WHEN entry_type = ? THEN amount ELSE -amount END), 0)", string(models.LedgerCredit)).
		Where("user_id = ?", userID).
		Scan(&balance).Error
	return balance, err
}

func (r *ledgerRepository) ListByUser(db *gorm.DB, userID string, p Pagination) ([]models.CurrencyLedger, int64, error) {
	var (
		entries []models.CurrencyLedger
		total   int64
	)
	query := db.Model(&models.CurrencyLedger{}).Where("user_id = ?", userID)
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(paginate(p)).Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}
