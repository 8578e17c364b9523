package services

import (
	"errors"
	"strings"

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

type WithdrawService interface {
	Create(db *gorm.DB, actor *auth.Identity, req *dto.CreateWithdrawRequest) (*dto.WithdrawDTO, error)
	ListMine(db *gorm.DB, actor *auth.Identity, query *dto.PageQuery) (*response.PagedResult[dto.WithdrawDTO], error)
	AdminList(db *gorm.DB, query *dto.WithdrawQuery) (*response.PagedResult[dto.WithdrawDTO], error)
	UpdateStatus(db *gorm.DB, id string, req *dto.UpdateWithdrawRequest) (*dto.WithdrawDTO, error)
}

type withdrawService struct {
	userRepo     repositories.UserRepository
	ledgerRepo   repositories.LedgerRepository
	withdrawRepo repositories.WithdrawRepository
}

func NewWithdrawService(
	userRepo repositories.UserRepository,
	ledgerRepo repositories.LedgerRepository,
	withdrawRepo repositories.WithdrawRepository,
) WithdrawService {
	return &withdrawService{
		userRepo:     userRepo,
		ledgerRepo:   ledgerRepo,
		withdrawRepo: withdrawRepo,
	}
}

// Create - проверка баланса и вставка заявки под блокировкой строки пользователя.
// Блокировка упорядочивает проверку относительно записей леджера от админа.
// Заявки в статусе PENDING баланс не резервируют, две заявки на весь баланс обе проходят.
func (s *withdrawService) Create(db *gorm.DB, actor *auth.Identity, req *dto.CreateWithdrawRequest) (*dto.WithdrawDTO, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidOperation("withdraw", "Amount must be positive")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.LockByID(tx, actor.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	balance, err := s.ledgerRepo.Balance(tx, actor.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if req.Amount > balance {
		metrics.Withdraws.WithLabelValues("insufficient_balance").Inc()
		return nil, apperrors.ErrInsufficientBalance
	}

	request := &models.WithdrawRequest{
		UserID:          actor.UserID,
		Amount:          req.Amount,
		BankName:        strings.TrimSpace(req.BankName),
		BankAccount:     strings.TrimSpace(req.BankAccount),
		BankAccountName: strings.TrimSpace(req.BankAccountName),
		Status:          models.WithdrawPending,
	}
	if err := s.withdrawRepo.Create(tx, request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.Withdraws.WithLabelValues("created").Inc()
	logger.CtxInfo(requestContext(db), "withdraw requested",
		"user_id", actor.UserID, "withdraw_id", request.ID, "amount", request.Amount)
	out := toWithdrawDTO(request)
	return &out, nil
}

func (s *withdrawService) ListMine(db *gorm.DB, actor *auth.Identity, query *dto.PageQuery) (*response.PagedResult[dto.WithdrawDTO], error) {
	page := query.Normalize()
	return s.list(db, repositories.WithdrawFilter{
		UserID:     actor.UserID,
		Pagination: repositories.Pagination{Page: page.PageNumber, PageSize: page.PageSize},
	})
}

func (s *withdrawService) AdminList(db *gorm.DB, query *dto.WithdrawQuery) (*response.PagedResult[dto.WithdrawDTO], error) {
	page := query.PageQuery.Normalize()
	return s.list(db, repositories.WithdrawFilter{
		Status:     models.WithdrawStatus(query.Status),
		Pagination: repositories.Pagination{Page: page.PageNumber, PageSize: page.PageSize},
	})
}

func (s *withdrawService) list(db *gorm.DB, filter repositories.WithdrawFilter) (*response.PagedResult[dto.WithdrawDTO], error) {
	items, total, err := s.withdrawRepo.List(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.WithdrawDTO, 0, len(items))
	for i := range items {
		out = append(out, toWithdrawDTO(&items[i]))
	}
	result := response.NewPaged(out, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateStatus - переход в любой статус по решению админа
func (s *withdrawService) UpdateStatus(db *gorm.DB, id string, req *dto.UpdateWithdrawRequest) (*dto.WithdrawDTO, error) {
	status := models.WithdrawStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus("withdraw", "Invalid withdraw status")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	request, err := s.withdrawRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleWithdrawError(err)
	}
	if err := s.withdrawRepo.UpdateStatus(tx, id, status, req.AdminNote); err != nil {
		return nil, apperrors.InternalError(err)
	}
	request.Status = status
	request.AdminNote = req.AdminNote

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(requestContext(db), "withdraw status updated", "withdraw_id", id, "status", status)
	out := toWithdrawDTO(request)
	return &out, nil
}

func handleWithdrawError(err error) error {
	if errors.Is(err, repositories.ErrWithdrawNotFound) {
		return apperrors.ErrWithdrawNotFound
	}
	return apperrors.InternalError(err)
}

func toWithdrawDTO(w *models.WithdrawRequest) dto.WithdrawDTO {
	return dto.WithdrawDTO{
		ID:              w.ID,
		UserID:          w.UserID,
		Amount:          w.Amount,
		BankName:        w.BankName,
		BankAccount:     w.BankAccount,
		BankAccountName: w.BankAccountName,
		Status:          string(w.Status),
		AdminNote:       w.AdminNote,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
