// Package testutil - общие хелперы тестов: in-memory БД и фикстуры.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/database"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultPassword = "password123"

var seq atomic.Int64

func init() {
	logger.Init("test")
	auth.SetPasswordCost(bcrypt.MinCost)
}

// NewTestDB открывает отдельную in-memory SQLite базу со схемой приложения.
// Одно соединение: каждая новая коннекция к :memory: видела бы пустую базу.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), "test")
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB из GORM: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// UniqueEmail - email, не пересекающийся между тестами
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, seq.Add(1))
}

// CreateUser создает активного подтвержденного пользователя с паролем DefaultPassword
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль: %v", err)
	}
	user := &models.User{
		FullName:      "Test User",
		Email:         email,
		PasswordHash:  &hash,
		Role:          role,
		Status:        models.UserStatusActive,
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя %s: %v", email, err)
	}
	return user
}

// Identity - identity пользователя, как ее строит middleware
func Identity(user *models.User) *auth.Identity {
	return &auth.Identity{UserID: user.ID, Email: user.Email, Role: string(user.Role)}
}

// CreateComic создает комикс; ownerID nil - контент платформы
func CreateComic(t *testing.T, db *gorm.DB, ownerID *string) *models.Comic {
	t.Helper()
	n := seq.Add(1)
	comic := &models.Comic{
		Title:   fmt.Sprintf("Comic %d", n),
		Slug:    fmt.Sprintf("comic-%d", n),
		OwnerID: ownerID,
	}
	if err := db.Create(comic).Error; err != nil {
		t.Fatalf("Не удалось создать комикс: %v", err)
	}
	return comic
}

// CreateChapter создает главу с ценой и n страницами (порядок 1..n)
func CreateChapter(t *testing.T, db *gorm.DB, comic *models.Comic, price int64, pages int) *models.Chapter {
	t.Helper()
	n := seq.Add(1)
	chapter := &models.Chapter{
		ComicID:       comic.ID,
		Title:         fmt.Sprintf("Chapter %d", n),
		Slug:          fmt.Sprintf("chapter-%d", n),
		ChapterNumber: int(n),
		UnitPrice:     price,
		PageCount:     pages,
	}
	if err := db.Omit("Comic", "Pages").Create(chapter).Error; err != nil {
		t.Fatalf("Не удалось создать главу: %v", err)
	}
	for i := 1; i <= pages; i++ {
		page := &models.ChapterPage{
			ChapterID: chapter.ID,
			PageOrder: i,
			ImageURL:  fmt.Sprintf("/uploads/%s/%d.png", chapter.Slug, i),
		}
		if err := db.Create(page).Error; err != nil {
			t.Fatalf("Не удалось создать страницу: %v", err)
		}
	}
	chapter.Comic = comic
	return chapter
}

// Credit начисляет валюту пользователю
func Credit(t *testing.T, db *gorm.DB, userID string, amount int64) {
	t.Helper()
	entry := &models.CurrencyLedger{UserID: userID, EntryType: models.LedgerCredit, Amount: amount}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("Не удалось начислить валюту: %v", err)
	}
}
