package services

import (
	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// EntitlementService решает, может ли actor читать страницы главы
type EntitlementService interface {
	CheckChapterAccess(db *gorm.DB, actor *auth.Identity, chapter *models.Chapter) error
}

type entitlementService struct {
	purchaseRepo repositories.PurchaseRepository
	comicRepo    repositories.ComicRepository
}

func NewEntitlementService(
	purchaseRepo repositories.PurchaseRepository,
	comicRepo repositories.ComicRepository,
) EntitlementService {
	return &entitlementService{
		purchaseRepo: purchaseRepo,
		comicRepo:    comicRepo,
	}
}

// CheckChapterAccess вызывается на каждое чтение страниц, результат не кешируется
func (s *entitlementService) CheckChapterAccess(db *gorm.DB, actor *auth.Identity, chapter *models.Chapter) error {
	comic := chapter.Comic
	if comic == nil {
		loaded, err := s.comicRepo.FindByID(db, chapter.ComicID)
		if err != nil {
			return handleCatalogError(err)
		}
		comic = loaded
	}

	// покупку проверяем только когда остальные предикаты не дали доступ
	if auth.CanReadChapter(actor, chapter, comic, false) {
		return nil
	}
	if actor == nil {
		return apperrors.ErrPurchaseRequired
	}

	purchased, err := s.purchaseRepo.Exists(db, actor.UserID, models.PurchaseTypeChapter, chapter.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !auth.CanReadChapter(actor, chapter, comic, purchased) {
		return apperrors.ErrPurchaseRequired
	}
	return nil
}
