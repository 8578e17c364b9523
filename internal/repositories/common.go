package repositories

import (
	"comicweb_backend/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pagination - номер страницы (с 1) и размер
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// paginate применяет limit/offset
func paginate(p Pagination) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.PageSize <= 0 {
			return db
		}
		return db.Offset(p.Offset()).Limit(p.PageSize)
	}
}

// forUpdate - блокировка строки там, где диалект ее поддерживает
func forUpdate(db *gorm.DB) *gorm.DB {
	if database.SupportsRowLocks(db) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
