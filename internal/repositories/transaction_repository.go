package repositories

import (
	"errors"

	"comicweb_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionFilter struct {
	UserID string // пусто - все пользователи (админ)
	Status models.TransactionStatus
	Pagination
}

type TransactionRepository interface {
	Create(db *gorm.DB, tx *models.Transaction) error
	FindByID(db *gorm.DB, id string) (*models.Transaction, error)
	List(db *gorm.DB, filter TransactionFilter) ([]models.Transaction, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.TransactionStatus) error
	CountByUserAndChapter(db *gorm.DB, userID, chapterID string) (int64, error)
}

type transactionRepository struct{}

func NewTransactionRepository() TransactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(db *gorm.DB, tx *models.Transaction) error {
	return db.Create(tx).Error
}

func (r *transactionRepository) FindByID(db *gorm.DB, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(db *gorm.DB, filter TransactionFilter) ([]models.Transaction, int64, error) {
	var (
		items []models.Transaction
		total int64
	)
	query := db.Model(&models.Transaction{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(paginate(filter.Pagination)).Order("created_at DESC").Find(&items).Error
	return items, total, err
}

func (r *transactionRepository) UpdateStatus(db *gorm.DB, id string, status models.TransactionStatus) error {
	return db.Model(&models.Transaction{}).Where("id = ?", id).Update("status", status).Error
}

func (r *transactionRepository) CountByUserAndChapter(db *gorm.DB, userID, chapterID string) (int64, error) {
	var count int64
	err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		Count(&count).Error
	return count, err
}
