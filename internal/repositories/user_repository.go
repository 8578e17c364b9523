package repositories

import (
	"errors"

	"comicweb_backend/internal/database"
	"comicweb_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	// LockByID читает пользователя с блокировкой строки до конца транзакции
	LockByID(db *gorm.DB, id string) (*models.User, error)
	UpdatePassword(db *gorm.DB, userID, passwordHash string) error
	MarkEmailVerified(db *gorm.DB, userID string) error
	UpdateRole(db *gorm.DB, userID string, role models.UserRole) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return r.first(db, "id = ?", id)
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.first(db, "email = ?", email)
}

func (r *userRepository) LockByID(db *gorm.DB, id string) (*models.User, error) {
	return r.first(forUpdate(db), "id = ?", id)
}

func (r *userRepository) first(db *gorm.DB, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := db.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	return r.updateColumn(db, userID, "password_hash", passwordHash)
}

func (r *userRepository) MarkEmailVerified(db *gorm.DB, userID string) error {
	return r.updateColumn(db, userID, "email_verified", true)
}

func (r *userRepository) UpdateRole(db *gorm.DB, userID string, role models.UserRole) error {
	return r.updateColumn(db, userID, "role", role)
}

func (r *userRepository) updateColumn(db *gorm.DB, userID, column string, value interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
