package repositories

import (
	"errors"

	"comicweb_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(db *gorm.DB, upload *models.Upload) error
	FindByID(db *gorm.DB, id string) (*models.Upload, error)
	ListByUser(db *gorm.DB, userID string, p Pagination) ([]models.Upload, int64, error)
}

type uploadRepository struct{}

func NewUploadRepository() UploadRepository {
	return &uploadRepository{}
}

func (r *uploadRepository) Create(db *gorm.DB, upload *models.Upload) error {
	return db.Create(upload).Error
}

func (r *uploadRepository) FindByID(db *gorm.DB, id string) (*models.Upload, error) {
	var upload models.Upload
	if err := db.First(&upload, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepository) ListByUser(db *gorm.DB, userID string, p Pagination) ([]models.Upload, int64, error) {
	var (
		uploads []models.Upload
		total   int64
	)
	query := db.Model(&models.Upload{}).Where("user_id = ?", userID)
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(paginate(p)).Order("created_at DESC").Find(&uploads).Error
	return uploads, total, err
}
