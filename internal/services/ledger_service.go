package services

import (
	"errors"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/services/dto"
	"comicweb_backend/pkg/apperrors"
	"comicweb_backend/pkg/response"

	"gorm.io/gorm"
)

// LedgerService - журнал внутренней валюты. Баланс всегда считается агрегатом.
type LedgerService interface {
	Balance(db *gorm.DB, actor *auth.Identity) (*dto.BalanceDTO, error)
	History(db *gorm.DB, actor *auth.Identity, query *dto.PageQuery) (*response.PagedResult[dto.LedgerEntryDTO], error)
	CreateEntry(db *gorm.DB, req *dto.CreateLedgerEntryRequest) (*dto.LedgerEntryDTO, error)
}

type ledgerService struct {
	userRepo   repositories.UserRepository
	ledgerRepo repositories.LedgerRepository
}

func NewLedgerService(userRepo repositories.UserRepository, ledgerRepo repositories.LedgerRepository) LedgerService {
	return &ledgerService{userRepo: userRepo, ledgerRepo: ledgerRepo}
}

func (s *ledgerService) Balance(db *gorm.DB, actor *auth.Identity) (*dto.BalanceDTO, error) {
	balance, err := s.ledgerRepo.Balance(db, actor.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.BalanceDTO{UserID: actor.UserID, Balance: balance}, nil
}

func (s *ledgerService) History(db *gorm.DB, actor *auth.Identity, query *dto.PageQuery) (*response.PagedResult[dto.LedgerEntryDTO], error) {
	page := query.Normalize()
	entries, total, err := s.ledgerRepo.ListByUser(db, actor.UserID,
		repositories.Pagination{Page: page.PageNumber, PageSize: page.PageSize})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.LedgerEntryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, toLedgerEntryDTO(&entries[i]))
	}
	result := response.NewPaged(out, total, page.PageNumber, page.PageSize)
	return &result, nil
}

// CreateEntry берет ту же блокировку строки пользователя, что и создание заявки на вывод
func (s *ledgerService) CreateEntry(db *gorm.DB, req *dto.CreateLedgerEntryRequest) (*dto.LedgerEntryDTO, error) {
	entryType := models.LedgerEntryType(req.EntryType)
	if !entryType.IsValid() || req.Amount <= 0 {
		return nil, apperrors.ErrInvalidOperation("ledger", "Invalid ledger entry")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.LockByID(tx, req.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	entry := &models.CurrencyLedger{
		UserID:      req.UserID,
		EntryType:   entryType,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := s.ledgerRepo.Append(tx, entry); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(requestContext(db), "ledger entry created",
		"user_id", entry.UserID, "entry_type", entry.EntryType, "amount", entry.Amount)
	out := toLedgerEntryDTO(entry)
	return &out, nil
}

func toLedgerEntryDTO(e *models.CurrencyLedger) dto.LedgerEntryDTO {
	return dto.LedgerEntryDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		EntryType:   string(e.EntryType),
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
