package repositories

import (
	"comicweb_backend/internal/database"
	"comicweb_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepository - права доступа к купленному контенту
type PurchaseRepository interface {
	// Insert добавляет запись. false - запись уже была (повторная покупка).
	Insert(db *gorm.DB, purchase *models.UserPurchase) (bool, error)
	Exists(db *gorm.DB, userID string, purchaseType models.PurchaseType, referenceID string) (bool, error)
}

type purchaseRepository struct{}

func NewPurchaseRepository() PurchaseRepository {
	return &purchaseRepository{}
}

// Insert полагается на составной первичный ключ: конфликт означает "уже куплено"
func (r *purchaseRepository) Insert(db *gorm.DB, purchase *models.UserPurchase) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(purchase)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *purchaseRepository) Exists(db *gorm.DB, userID string, purchaseType models.PurchaseType, referenceID string) (bool, error) {
	var count int64
	err := db.Model(&models.UserPurchase{}).
		Where("user_id = ? AND purchase_type = ? AND reference_id = ?", userID, purchaseType, referenceID).
		Count(&count).Error
	return count > 0, err
}
