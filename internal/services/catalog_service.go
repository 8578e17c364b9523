package services

import (
	"errors"
	"strings"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/database"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/services/dto"
	"comicweb_backend/pkg/apperrors"
	"comicweb_backend/pkg/response"

	"gorm.io/gorm"
)

type CatalogService interface {
	// Comics
	CreateComic(db *gorm.DB, actor *auth.Identity, req *dto.CreateComicRequest) (*dto.ComicDTO, error)
	GetComic(db *gorm.DB, id string) (*dto.ComicDTO, error)
	ListComics(db *gorm.DB, query *dto.PageQuery) (*response.PagedResult[dto.ComicDTO], error)

	// Chapters
	CreateChapter(db *gorm.DB, actor *auth.Identity, req *dto.CreateChapterRequest) (*dto.ChapterDTO, error)
	GetChapter(db *gorm.DB, id string) (*dto.ChapterDTO, error)
	UpdateChapter(db *gorm.DB, actor *auth.Identity, id string, req *dto.UpdateChapterRequest) (*dto.ChapterDTO, error)
	DeleteChapter(db *gorm.DB, actor *auth.Identity, id string) error
	ListChapters(db *gorm.DB, query *dto.ChapterQuery) (*response.PagedResult[dto.ChapterDTO], error)

	// Pages
	GetPagesByChapterID(db *gorm.DB, actor *auth.Identity, chapterID string) (*dto.ChapterPagesResponse, error)
	GetPagesByChapterSlug(db *gorm.DB, actor *auth.Identity, slug string) (*dto.ChapterPagesResponse, error)
	AddPages(db *gorm.DB, actor *auth.Identity, chapterID string, req *dto.AddPagesRequest) ([]dto.PageDTO, error)
	ReorderPages(db *gorm.DB, actor *auth.Identity, chapterID string, req *dto.ReorderPagesRequest) ([]dto.PageDTO, error)
	DeletePage(db *gorm.DB, actor *auth.Identity, chapterID, pageID string) error
}

type catalogService struct {
	comicRepo    repositories.ComicRepository
	chapterRepo  repositories.ChapterRepository
	pageRepo     repositories.PageRepository
	entitlements EntitlementService
}

func NewCatalogService(
	comicRepo repositories.ComicRepository,
	chapterRepo repositories.ChapterRepository,
	pageRepo repositories.PageRepository,
	entitlements EntitlementService,
) CatalogService {
	return &catalogService{
		comicRepo:    comicRepo,
		chapterRepo:  chapterRepo,
		pageRepo:     pageRepo,
		entitlements: entitlements,
	}
}

// Comic operations

func (s *catalogService) CreateComic(db *gorm.DB, actor *auth.Identity, req *dto.CreateComicRequest) (*dto.ComicDTO, error) {
	ownerID := actor.UserID
	comic := &models.Comic{
		Title:       strings.TrimSpace(req.Title),
		Slug:        req.Slug,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		OwnerID:     &ownerID,
	}
	if err := s.comicRepo.Create(db, comic); err != nil {
		return nil, handleCatalogError(err)
	}
	out := toComicDTO(comic)
	return &out, nil
}

func (s *catalogService) GetComic(db *gorm.DB, id string) (*dto.ComicDTO, error) {
	comic, err := s.comicRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCatalogError(err)
	}
	out := toComicDTO(comic)
	return &out, nil
}

func (s *catalogService) ListComics(db *gorm.DB, query *dto.PageQuery) (*response.PagedResult[dto.ComicDTO], error) {
	page := query.Normalize()
	comics, total, err := s.comicRepo.List(db, repositories.Pagination{Page: page.PageNumber, PageSize: page.PageSize})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.ComicDTO, 0, len(comics))
	for i := range comics {
		out = append(out, toComicDTO(&comics[i]))
	}
	result := response.NewPaged(out, total, page.PageNumber, page.PageSize)
	return &result, nil
}

// Chapter operations

func (s *catalogService) CreateChapter(db *gorm.DB, actor *auth.Identity, req *dto.CreateChapterRequest) (*dto.ChapterDTO, error) {
	comic, err := s.comicRepo.FindByID(db, req.ComicID)
	if err != nil {
		return nil, handleCatalogError(err)
	}
	if !auth.CanManageComic(actor, comic) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	chapter := &models.Chapter{
		ComicID:       comic.ID,
		Title:         strings.TrimSpace(req.Title),
		Slug:          req.Slug,
		ChapterNumber: req.ChapterNumber,
		UnitPrice:     req.UnitPrice,
	}
	if err := s.chapterRepo.Create(db, chapter); err != nil {
		return nil, handleCatalogError(err)
	}
	out := toChapterDTO(chapter)
	return &out, nil
}

func (s *catalogService) GetChapter(db *gorm.DB, id string) (*dto.ChapterDTO, error) {
	chapter, err := s.chapterRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCatalogError(err)
	}
	out := toChapterDTO(chapter)
	return &out, nil
}

func (s *catalogService) UpdateChapter(db *gorm.DB, actor *auth.Identity, id string, req *dto.UpdateChapterRequest) (*dto.ChapterDTO, error) {
	chapter, err := s.managedChapter(db, actor, id)
	if err != nil {
		return nil, err
	}

	chapter.Title = strings.TrimSpace(req.Title)
	chapter.Slug = req.Slug
	chapter.ChapterNumber = req.ChapterNumber
	chapter.UnitPrice = req.UnitPrice
	if err := s.chapterRepo.Update(db, chapter); err != nil {
		return nil, handleCatalogError(err)
	}
	out := toChapterDTO(chapter)
	return &out, nil
}

func (s *catalogService) DeleteChapter(db *gorm.DB, actor *auth.Identity, id string) error {
	if _, err := s.managedChapter(db, actor, id); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.chapterRepo.Delete(tx, id); err != nil {
		return handleCatalogError(err)
	}
	return tx.Commit().Error
}

func (s *catalogService) ListChapters(db *gorm.DB, query *dto.ChapterQuery) (*response.PagedResult[dto.ChapterDTO], error) {
	page := query.PageQuery.Normalize()
	chapters, total, err := s.chapterRepo.ListByComic(db, query.ComicID,
		repositories.Pagination{Page: page.PageNumber, PageSize: page.PageSize})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.ChapterDTO, 0, len(chapters))
	for i := range chapters {
		out = append(out, toChapterDTO(&chapters[i]))
	}
	result := response.NewPaged(out, total, page.PageNumber, page.PageSize)
	return &result, nil
}

// Page operations

func (s *catalogService) GetPagesByChapterID(db *gorm.DB, actor *auth.Identity, chapterID string) (*dto.ChapterPagesResponse, error) {
	chapter, err := s.chapterRepo.FindByID(db, chapterID)
	if err != nil {
		return nil, handleCatalogError(err)
	}
	return s.readPages(db, actor, chapter)
}

func (s *catalogService) GetPagesByChapterSlug(db *gorm.DB, actor *auth.Identity, slug string) (*dto.ChapterPagesResponse, error) {
	chapter, err := s.chapterRepo.FindBySlug(db, slug)
	if err != nil {
		return nil, handleCatalogError(err)
	}
	return s.readPages(db, actor, chapter)
}

func (s *catalogService) readPages(db *gorm.DB, actor *auth.Identity, chapter *models.Chapter) (*dto.ChapterPagesResponse, error) {
	if err := s.entitlements.CheckChapterAccess(db, actor, chapter); err != nil {
		return nil, err
	}
	pages, err := s.pageRepo.ListByChapter(db, chapter.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ChapterPagesResponse{
		Chapter: toChapterDTO(chapter),
		Pages:   toPageDTOs(pages),
	}, nil
}

// AddPages - порядковые номера не должны повторяться ни в запросе, ни среди существующих страниц
func (s *catalogService) AddPages(db *gorm.DB, actor *auth.Identity, chapterID string, req *dto.AddPagesRequest) ([]dto.PageDTO, error) {
	chapter, err := s.managedChapter(db, actor, chapterID)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	existing, err := s.pageRepo.ListByChapter(tx, chapter.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	taken := make(map[int]struct{}, len(existing)+len(req.Pages))
	for _, p := range existing {
		taken[p.PageOrder] = struct{}{}
	}

	pages := make([]models.ChapterPage, 0, len(req.Pages))
	for _, in := range req.Pages {
		if _, dup := taken[in.PageOrder]; dup {
			return nil, apperrors.ErrDuplicatePageOrder
		}
		taken[in.PageOrder] = struct{}{}
		pages = append(pages, models.ChapterPage{
			ChapterID: chapter.ID,
			PageOrder: in.PageOrder,
			ImageURL:  in.ImageURL,
		})
	}

	if err := s.pageRepo.CreateBatch(tx, pages); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.ErrDuplicatePageOrder
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.chapterRepo.AddPageCount(tx, chapter.ID, len(pages)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toPageDTOs(pages), nil
}

// ReorderPages - двухфазная запись в одной транзакции.
// Сначала перемещаемые страницы уходят в отрицательные номера, затем получают итоговые,
// поэтому обмен местами не нарушает уникальный индекс (chapter_id, page_order).
func (s *catalogService) ReorderPages(db *gorm.DB, actor *auth.Identity, chapterID string, req *dto.ReorderPagesRequest) ([]dto.PageDTO, error) {
	chapter, err := s.managedChapter(db, actor, chapterID)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	existing, err := s.pageRepo.ListByChapter(tx, chapter.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := validateReorder(existing, req.Pages); err != nil {
		return nil, err
	}

	for i, move := range req.Pages {
		if err := s.pageRepo.UpdateOrder(tx, move.PageID, -(i + 1)); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	for _, move := range req.Pages {
		if err := s.pageRepo.UpdateOrder(tx, move.PageID, move.PageOrder); err != nil {
			if database.IsUniqueViolation(err) {
				return nil, apperrors.ErrDuplicatePageOrder
			}
			return nil, apperrors.InternalError(err)
		}
	}

	pages, err := s.pageRepo.ListByChapter(tx, chapter.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(requestContext(db), "chapter pages reordered", "chapter_id", chapter.ID, "moved", len(req.Pages))
	return toPageDTOs(pages), nil
}

// validateReorder отклоняет чужие id, повторы и пересечения с неперемещаемыми страницами до любой записи
func validateReorder(existing []models.ChapterPage, moves []dto.PageOrderInput) error {
	byID := make(map[string]models.ChapterPage, len(existing))
	for _, p := range existing {
		byID[p.ID] = p
	}

	moved := make(map[string]struct{}, len(moves))
	targets := make(map[int]struct{}, len(moves))
	for _, m := range moves {
		if _, ok := byID[m.PageID]; !ok {
			return apperrors.ErrPageNotFound
		}
		if _, dup := moved[m.PageID]; dup {
			return apperrors.NewBadRequestError("Page listed more than once")
		}
		moved[m.PageID] = struct{}{}
		if _, dup := targets[m.PageOrder]; dup {
			return apperrors.ErrDuplicatePageOrder
		}
		targets[m.PageOrder] = struct{}{}
	}

	for _, p := range existing {
		if _, isMoved := moved[p.ID]; isMoved {
			continue
		}
		if _, clash := targets[p.PageOrder]; clash {
			return apperrors.ErrDuplicatePageOrder
		}
	}
	return nil
}

func (s *catalogService) DeletePage(db *gorm.DB, actor *auth.Identity, chapterID, pageID string) error {
	chapter, err := s.managedChapter(db, actor, chapterID)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.pageRepo.FindByID(tx, chapter.ID, pageID); err != nil {
		return handleCatalogError(err)
	}
	if err := s.pageRepo.Delete(tx, pageID); err != nil {
		return handleCatalogError(err)
	}
	if err := s.chapterRepo.AddPageCount(tx, chapter.ID, -1); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// managedChapter загружает главу и проверяет право на изменение
func (s *catalogService) managedChapter(db *gorm.DB, actor *auth.Identity, id string) (*models.Chapter, error) {
	chapter, err := s.chapterRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCatalogError(err)
	}
	if !auth.CanManageComic(actor, chapter.Comic) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return chapter, nil
}

func handleCatalogError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrComicNotFound):
		return apperrors.ErrComicNotFound
	case errors.Is(err, repositories.ErrChapterNotFound):
		return apperrors.ErrChapterNotFound
	case errors.Is(err, repositories.ErrPageNotFound):
		return apperrors.ErrPageNotFound
	case errors.Is(err, repositories.ErrSlugTaken):
		return apperrors.ErrSlugAlreadyExists
	default:
		return apperrors.InternalError(err)
	}
}

func toComicDTO(c *models.Comic) dto.ComicDTO {
	return dto.ComicDTO{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		CoverURL:    c.CoverURL,
		OwnerID:     c.OwnerID,
		CreatedAt:   c.CreatedAt,
	}
}

func toChapterDTO(c *models.Chapter) dto.ChapterDTO {
	return dto.ChapterDTO{
		ID:            c.ID,
		ComicID:       c.ComicID,
		Title:         c.Title,
		Slug:          c.Slug,
		ChapterNumber: c.ChapterNumber,
		UnitPrice:     c.UnitPrice,
		PageCount:     c.PageCount,
		CreatedAt:     c.CreatedAt,
	}
}

func toPageDTOs(pages []models.ChapterPage) []dto.PageDTO {
	out := make([]dto.PageDTO, 0, len(pages))
	for _, p := range pages {
		out = append(out, dto.PageDTO{ID: p.ID, PageOrder: p.PageOrder, ImageURL: p.ImageURL})
	}
	return out
}
