package services

import (
	"errors"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/metrics"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/services/dto"
	"comicweb_backend/pkg/apperrors"
	"comicweb_backend/pkg/response"

	"gorm.io/gorm"
)

type PaymentService interface {
	PurchaseChapter(db *gorm.DB, actor *auth.Identity, req *dto.PurchaseChapterRequest) (*dto.PurchaseResponse, error)
	ListTransactions(db *gorm.DB, actor *auth.Identity, query *dto.TransactionQuery) (*response.PagedResult[dto.TransactionDTO], error)
	CheckTransaction(db *gorm.DB, actor *auth.Identity, id string) (*dto.TransactionDTO, error)
	AcceptManual(db *gorm.DB, id string) (*dto.TransactionDTO, error)
}

type paymentService struct {
	chapterRepo     repositories.ChapterRepository
	purchaseRepo    repositories.PurchaseRepository
	transactionRepo repositories.TransactionRepository
}

func NewPaymentService(
	chapterRepo repositories.ChapterRepository,
	purchaseRepo repositories.PurchaseRepository,
	transactionRepo repositories.TransactionRepository,
) PaymentService {
	return &paymentService{
		chapterRepo:     chapterRepo,
		purchaseRepo:    purchaseRepo,
		transactionRepo: transactionRepo,
	}
}

// PurchaseChapter идемпотентна: повторная покупка не пишет транзакцию.
// Списание с баланса не выполняется, транзакция фиксируется как MANUAL.
func (s *paymentService) PurchaseChapter(db *gorm.DB, actor *auth.Identity, req *dto.PurchaseChapterRequest) (*dto.PurchaseResponse, error) {
	chapter, err := s.chapterRepo.FindByID(db, req.ChapterID)
	if err != nil {
		return nil, handleCatalogError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	inserted, err := s.purchaseRepo.Insert(tx, &models.UserPurchase{
		UserID:       actor.UserID,
		PurchaseType: models.PurchaseTypeChapter,
		ReferenceID:  chapter.ID,
	})
	if err != nil {
		metrics.Purchases.WithLabelValues("error").Inc()
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.PurchaseResponse{ChapterID: chapter.ID, AlreadyOwned: !inserted}
	if inserted {
		chapterID := chapter.ID
		record := &models.Transaction{
			UserID:       actor.UserID,
			Type:         models.TransactionTypeChapter,
			ChapterID:    &chapterID,
			Amount:       chapter.UnitPrice,
			CurrencyType: models.CurrencyCoin,
			Status:       models.TransactionStatusSuccess,
			Provider:     models.ProviderManual,
		}
		if err := s.transactionRepo.Create(tx, record); err != nil {
			metrics.Purchases.WithLabelValues("error").Inc()
			return nil, apperrors.InternalError(err)
		}
		resp.TransactionID = &record.ID
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	if inserted {
		metrics.Purchases.WithLabelValues("purchased").Inc()
		logger.CtxInfo(requestContext(db), "chapter purchased",
			"user_id", actor.UserID, "chapter_id", chapter.ID, "amount", chapter.UnitPrice)
	} else {
		metrics.Purchases.WithLabelValues("already_owned").Inc()
	}
	return resp, nil
}

// ListTransactions - админ видит все, пользователь только свои
func (s *paymentService) ListTransactions(db *gorm.DB, actor *auth.Identity, query *dto.TransactionQuery) (*response.PagedResult[dto.TransactionDTO], error) {
	page := query.PageQuery.Normalize()
	filter := repositories.TransactionFilter{
		Status:     models.TransactionStatus(query.Status),
		Pagination: repositories.Pagination{Page: page.PageNumber, PageSize: page.PageSize},
	}
	if !auth.IsAdmin(actor) {
		filter.UserID = actor.UserID
	}

	items, total, err := s.transactionRepo.List(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.TransactionDTO, 0, len(items))
	for i := range items {
		out = append(out, toTransactionDTO(&items[i]))
	}
	result := response.NewPaged(out, total, page.PageNumber, page.PageSize)
	return &result, nil
}

func (s *paymentService) CheckTransaction(db *gorm.DB, actor *auth.Identity, id string) (*dto.TransactionDTO, error) {
	record, err := s.transactionRepo.FindByID(db, id)
	if err != nil {
		return nil, handleTransactionError(err)
	}
	if !auth.CanViewTransaction(actor, record) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	out := toTransactionDTO(record)
	return &out, nil
}

// AcceptManual - ручное подтверждение транзакции админом
func (s *paymentService) AcceptManual(db *gorm.DB, id string) (*dto.TransactionDTO, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	record, err := s.transactionRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleTransactionError(err)
	}
	if err := s.transactionRepo.UpdateStatus(tx, id, models.TransactionStatusSuccess); err != nil {
		return nil, apperrors.InternalError(err)
	}
	record.Status = models.TransactionStatusSuccess

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(requestContext(db), "transaction accepted manually", "transaction_id", id)
	out := toTransactionDTO(record)
	return &out, nil
}

func handleTransactionError(err error) error {
	if errors.Is(err, repositories.ErrTransactionNotFound) {
		return apperrors.ErrTransactionNotFound
	}
	return apperrors.InternalError(err)
}

func toTransactionDTO(t *models.Transaction) dto.TransactionDTO {
	return dto.TransactionDTO{
		ID:           t.ID,
		UserID:       t.UserID,
		Type:         string(t.Type),
		ChapterID:    t.ChapterID,
		Amount:       t.Amount,
		CurrencyType: t.CurrencyType,
		Status:       string(t.Status),
		Provider:     t.Provider,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
