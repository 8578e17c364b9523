package services

import (
	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/email"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	EntitlementService EntitlementService
	PaymentService     PaymentService
	LedgerService      LedgerService
	WithdrawService    WithdrawService
	CatalogService     CatalogService
	UploadService      UploadService
}

// Dependencies - внешние зависимости сервисов
type Dependencies struct {
	JWT     *auth.JWTManager
	Mailer  email.Mailer
	Storage storage.Storage
	TTLs    AuthTTLs
	Upload  UploadConfig
}

// NewServiceContainer собирает сервисы поверх stateless репозиториев
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	tokenRepo := repositories.NewRefreshTokenRepository()
	codeRepo := repositories.NewAuthCodeRepository()
	comicRepo := repositories.NewComicRepository()
	chapterRepo := repositories.NewChapterRepository()
	pageRepo := repositories.NewPageRepository()
	purchaseRepo := repositories.NewPurchaseRepository()
	transactionRepo := repositories.NewTransactionRepository()
	ledgerRepo := repositories.NewLedgerRepository()
	withdrawRepo := repositories.NewWithdrawRepository()
	uploadRepo := repositories.NewUploadRepository()

	entitlements := NewEntitlementService(purchaseRepo, comicRepo)

	return &ServiceContainer{
		AuthService:        NewAuthService(userRepo, tokenRepo, codeRepo, deps.JWT, deps.Mailer, deps.TTLs),
		EntitlementService: entitlements,
		PaymentService:     NewPaymentService(chapterRepo, purchaseRepo, transactionRepo),
		LedgerService:      NewLedgerService(userRepo, ledgerRepo),
		WithdrawService:    NewWithdrawService(userRepo, ledgerRepo, withdrawRepo),
		CatalogService:     NewCatalogService(comicRepo, chapterRepo, pageRepo, entitlements),
		UploadService:      NewUploadService(uploadRepo, deps.Storage, deps.Upload),
	}
}
