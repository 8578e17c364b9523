package dto

import "time"

type CreateComicRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"required,max=255,slug"`
	Description string  `json:"description" validate:"max=5000"`
	CoverURL    *string `json:"coverUrl" validate:"omitempty,max=1024"`
}

type ComicDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CoverURL    *string   `json:"coverUrl"`
	OwnerID     *string   `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateChapterRequest struct {
	ComicID       string `json:"comicId" validate:"required"`
	Title         string `json:"title" validate:"required,max=255"`
	Slug          string `json:"slug" validate:"required,max=255,slug"`
	ChapterNumber int    `json:"chapterNumber" validate:"gte=0"`
	UnitPrice     int64  `json:"unitPrice" validate:"gte=0"`
}

type UpdateChapterRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Slug          string `json:"slug" validate:"required,max=255,slug"`
	ChapterNumber int    `json:"chapterNumber" validate:"gte=0"`
	UnitPrice     int64  `json:"unitPrice" validate:"gte=0"`
}

type ChapterQuery struct {
	PageQuery
	ComicID string `form:"comicId" json:"comicId"`
}

type ChapterDTO struct {
	ID            string    `json:"id"`
	ComicID       string    `json:"comicId"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	ChapterNumber int       `json:"chapterNumber"`
	UnitPrice     int64     `json:"unitPrice"`
	PageCount     int       `json:"pageCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PageInput struct {
	PageOrder int    `json:"pageOrder" validate:"gte=1"`
	ImageURL  string `json:"imageUrl" validate:"required,max=1024"`
}

type AddPagesRequest struct {
	Pages []PageInput `json:"pages" validate:"required,min=1,max=500,dive"`
}

// PageOrderInput - новая позиция страницы при перестановке
type PageOrderInput struct {
	PageID    string `json:"pageId" validate:"required"`
	PageOrder int    `json:"pageOrder" validate:"gte=1"`
}

type ReorderPagesRequest struct {
	Pages []PageOrderInput `json:"pages" validate:"required,min=1,max=500,dive"`
}

type PageDTO struct {
	ID        string `json:"id"`
	PageOrder int    `json:"pageOrder"`
	ImageURL  string `json:"imageUrl"`
}

// ChapterPagesResponse - страницы главы вместе с метаданными главы
type ChapterPagesResponse struct {
	Chapter ChapterDTO `json:"chapter"`
	Pages   []PageDTO  `json:"pages"`
}
