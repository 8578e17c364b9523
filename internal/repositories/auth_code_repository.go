package repositories

import (
	"errors"
	"time"

	"comicweb_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCodeNotFound = errors.New("one-time code not found")

// AuthCodeRepository - одноразовые коды подтверждения email и сброса пароля.
// Коды ищутся по (user, hash) и никогда не удаляются: использование фиксируется временем.
type AuthCodeRepository interface {
	CreateVerification(db *gorm.DB, code *models.EmailVerificationCode) error
	FindVerification(db *gorm.DB, userID, codeHash string) (*models.EmailVerificationCode, error)
	// ConsumeVerification ставит verified_at, если код еще не использован
	ConsumeVerification(db *gorm.DB, id string, at time.Time) (bool, error)

	CreateReset(db *gorm.DB, code *models.PasswordResetCode) error
	FindReset(db *gorm.DB, userID, codeHash string) (*models.PasswordResetCode, error)
	ConsumeReset(db *gorm.DB, id string, at time.Time) (bool, error)
}

type authCodeRepository struct{}

func NewAuthCodeRepository() AuthCodeRepository {
	return &authCodeRepository{}
}

func (r *authCodeRepository) CreateVerification(db *gorm.DB, code *models.EmailVerificationCode) error {
	return db.Create(code).Error
}

func (r *authCodeRepository) FindVerification(db *gorm.DB, userID, codeHash string) (*models.EmailVerificationCode, error) {
	var code models.EmailVerificationCode
	// при совпадении хешей берем самый свежий
	err := db.Where("user_id = ? AND code_hash = ?", userID, codeHash).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *authCodeRepository) ConsumeVerification(db *gorm.DB, id string, at time.Time) (bool, error) {
	result := db.Model(&models.EmailVerificationCode{}).
		Where("id = ? AND verified_at IS NULL", id).
		Update("verified_at", at)
	return result.RowsAffected == 1, result.Error
}

func (r *authCodeRepository) CreateReset(db *gorm.DB, code *models.PasswordResetCode) error {
	return db.Create(code).Error
}

func (r *authCodeRepository) FindReset(db *gorm.DB, userID, codeHash string) (*models.PasswordResetCode, error) {
	var code models.PasswordResetCode
	err := db.Where("user_id = ? AND code_hash = ?", userID, codeHash).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *authCodeRepository) ConsumeReset(db *gorm.DB, id string, at time.Time) (bool, error) {
	result := db.Model(&models.PasswordResetCode{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	return result.RowsAffected == 1, result.Error
}
