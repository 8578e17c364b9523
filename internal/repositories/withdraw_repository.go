package repositories

import (
	"errors"

	"comicweb_backend/internal/models"

	"gorm.io/gorm"
)

var ErrWithdrawNotFound = errors.New("withdraw request not found")

type WithdrawFilter struct {
	UserID string
	Status models.WithdrawStatus
	Pagination
}

type WithdrawRepository interface {
	Create(db *gorm.DB, req *models.WithdrawRequest) error
	FindByID(db *gorm.DB, id string) (*models.WithdrawRequest, error)
	List(db *gorm.DB, filter WithdrawFilter) ([]models.WithdrawRequest, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.WithdrawStatus, note *string) error
}

type withdrawRepository struct{}

func NewWithdrawRepository() WithdrawRepository {
	return &withdrawRepository{}
}

func (r *withdrawRepository) Create(db *gorm.DB, req *models.WithdrawRequest) error {
	return db.Create(req).Error
}

func (r *withdrawRepository) FindByID(db *gorm.DB, id string) (*models.WithdrawRequest, error) {
	var req models.WithdrawRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *withdrawRepository) List(db *gorm.DB, filter WithdrawFilter) ([]models.WithdrawRequest, int64, error) {
	var (
		items []models.WithdrawRequest
		total int64
	)
	query := db.Model(&models.WithdrawRequest{})
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

// UpdateStatus не проверяет RowsAffected: mysql не считает строку, если значения не изменились
func (r *withdrawRepository) UpdateStatus(db *gorm.DB, id string, status models.WithdrawStatus, note *string) error {
	return db.Model(&models.WithdrawRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "admin_note": note}).Error
}
