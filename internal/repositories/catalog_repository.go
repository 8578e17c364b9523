package repositories

import (
	"errors"

	"comicweb_backend/internal/database"
	"comicweb_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrComicNotFound   = errors.New("comic not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrPageNotFound    = errors.New("page not found")
	ErrSlugTaken       = errors.New("slug already exists")
)

type ComicRepository interface {
	Create(db *gorm.DB, comic *models.Comic) error
	FindByID(db *gorm.DB, id string) (*models.Comic, error)
	List(db *gorm.DB, p Pagination) ([]models.Comic, int64, error)
}

type comicRepository struct{}

func NewComicRepository() ComicRepository {
	return &comicRepository{}
}

func (r *comicRepository) Create(db *gorm.DB, comic *models.Comic) error {
	if err := db.Create(comic).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *comicRepository) FindByID(db *gorm.DB, id string) (*models.Comic, error) {
	var comic models.Comic
	if err := db.First(&comic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComicNotFound
		}
		return nil, err
	}
	return &comic, nil
}

func (r *comicRepository) List(db *gorm.DB, p Pagination) ([]models.Comic, int64, error) {
	var (
		comics []models.Comic
		total  int64
	)
	if err := db.Model(&models.Comic{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Scopes(paginate(p)).Order("created_at DESC").Find(&comics).Error
	return comics, total, err
}

// ChapterRepository - главы. Find* подгружают Comic, он нужен для проверок владельца.
type ChapterRepository interface {
	Create(db *gorm.DB, chapter *models.Chapter) error
	FindByID(db *gorm.DB, id string) (*models.Chapter, error)
	FindBySlug(db *gorm.DB, slug string) (*models.Chapter, error)
	Update(db *gorm.DB, chapter *models.Chapter) error
	Delete(db *gorm.DB, id string) error
	ListByComic(db *gorm.DB, comicID string, p Pagination) ([]models.Chapter, int64, error)
	AddPageCount(db *gorm.DB, id string, delta int) error
}

type chapterRepository struct{}

func NewChapterRepository() ChapterRepository {
	return &chapterRepository{}
}

func (r *chapterRepository) Create(db *gorm.DB, chapter *models.Chapter) error {
	if err := db.Omit("Comic", "Pages").Create(chapter).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *chapterRepository) FindByID(db *gorm.DB, id string) (*models.Chapter, error) {
	return r.first(db, "id = ?", id)
}

func (r *chapterRepository) FindBySlug(db *gorm.DB, slug string) (*models.Chapter, error) {
	return r.first(db, "slug = ?", slug)
}

func (r *chapterRepository) first(db *gorm.DB, query string, args ...interface{}) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := db.Preload("Comic").Where(query, args...).First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepository) Update(db *gorm.DB, chapter *models.Chapter) error {
	err := db.Model(chapter).
		Select("title", "slug", "chapter_number", "unit_price").
		Updates(chapter).Error
	if err != nil && database.IsUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

// Delete удаляет главу вместе со страницами
func (r *chapterRepository) Delete(db *gorm.DB, id string) error {
	if err := db.Where("chapter_id = ?", id).Delete(&models.ChapterPage{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Chapter{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChapterNotFound
	}
	return nil
}

func (r *chapterRepository) ListByComic(db *gorm.DB, comicID string, p Pagination) ([]models.Chapter, int64, error) {
	var (
		chapters []models.Chapter
		total    int64
	)
	query := db.Model(&models.Chapter{})
	if comicID != "" {
		query = query.Where("comic_id = ?", comicID)
	}
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Scopes(paginate(p)).Order("chapter_number ASC, created_at ASC").Find(&chapters).Error
	return chapters, total, err
}

func (r *chapterRepository) AddPageCount(db *gorm.DB, id string, delta int) error {
	return db.Model(&models.Chapter{}).
		Where("id = ?", id).
		Update("page_count", gorm.Expr("page_count + ?", delta)).Error
}

type PageRepository interface {
	ListByChapter(db *gorm.DB, chapterID string) ([]models.ChapterPage, error)
	CreateBatch(db *gorm.DB, pages []models.ChapterPage) error
	FindByID(db *gorm.DB, chapterID, pageID string) (*models.ChapterPage, error)
	UpdateOrder(db *gorm.DB, pageID string, order int) error
	Delete(db *gorm.DB, pageID string) error
}

type pageRepository struct{}

func NewPageRepository() PageRepository {
	return &pageRepository{}
}

func (r *pageRepository) ListByChapter(db *gorm.DB, chapterID string) ([]models.ChapterPage, error) {
	var pages []models.ChapterPage
	err := db.Where("chapter_id = ?", chapterID).Order("page_order ASC").Find(&pages).Error
	return pages, err
}

func (r *pageRepository) CreateBatch(db *gorm.DB, pages []models.ChapterPage) error {
	if len(pages) == 0 {
		return nil
	}
	return db.Create(&pages).Error
}

func (r *pageRepository) FindByID(db *gorm.DB, chapterID, pageID string) (*models.ChapterPage, error) {
	var page models.ChapterPage
	err := db.Where("id = ? AND chapter_id = ?", pageID, chapterID).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) UpdateOrder(db *gorm.DB, pageID string, order int) error {
	return db.Model(&models.ChapterPage{}).Where("id = ?", pageID).Update("page_order", order).Error
}

func (r *pageRepository) Delete(db *gorm.DB, pageID string) error {
	result := db.Delete(&models.ChapterPage{}, "id = ?", pageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPageNotFound
	}
	return nil
}
