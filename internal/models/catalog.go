package models

type Comic struct {
	BaseModel
	Title       string  `gorm:"type:varchar(255);not null"`
	Slug        string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string  `gorm:"type:text"`
	CoverURL    *string `gorm:"type:varchar(1024)"`
	OwnerID     *string `gorm:"type:varchar(36);index"` // nil для контента платформы

	Chapters []Chapter `gorm:"foreignKey:ComicID"`
}

type Chapter struct {
	BaseModel
	ComicID       string `gorm:"type:varchar(36);not null;index"`
	Title         string `gorm:"type:varchar(255);not null"`
	Slug          string `gorm:"type:varchar(255);uniqueIndex;not null"`
	ChapterNumber int    `gorm:"not null;default:0"`
	UnitPrice     int64  `gorm:"not null;default:0"` // 0 - бесплатная глава
	PageCount     int    `gorm:"not null;default:0"`

	Comic *Comic        `gorm:"foreignKey:ComicID"`
	Pages []ChapterPage `gorm:"foreignKey:ChapterID"`
}

func (c *Chapter) IsFree() bool {
	return c.UnitPrice <= 0
}

// ChapterPage - порядок страницы уникален в пределах главы
type ChapterPage struct {
	BaseModel
	ChapterID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_chapter_page_order"`
	PageOrder int    `gorm:"not null;uniqueIndex:idx_chapter_page_order"`
	ImageURL  string `gorm:"type:varchar(1024);not null"`
}
