package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/config"
	"comicweb_backend/internal/database"
	"comicweb_backend/internal/email"
	"comicweb_backend/internal/handlers"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/metrics"
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/routes"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/storage"
	"comicweb_backend/internal/validator"
	"comicweb_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Options - подмена внешних зависимостей (в тестах)
type Options struct {
	EmailProvider email.Provider
	Storage       storage.Storage
}

func Run() {
	if err := config.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Migration failed", "error", err)
		}
	}

	if err := SeedAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed admin user", "error", err)
	}

	stop := make(chan struct{})
	ginRouter, err := SetupRouter(cfg, gormDB, Options{}, stop)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	waitForShutdown(server, stop)
}

// SetupRouter собирает сервисы, хендлеры и маршруты поверх готового *gorm.DB.
// stop останавливает фоновые задачи (очистку rate limiter).
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, opts Options, stop <-chan struct{}) (*gin.Engine, error) {
	storageInstance := opts.Storage
	if storageInstance == nil {
		var err error
		storageInstance, err = storage.NewStorage(storage.ConfigFromApp(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}
	logger.Info("Storage initialized", "type", storageInstance.Name())

	mailer, err := buildMailer(cfg, opts.EmailProvider)
	if err != nil {
		return nil, err
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.AccessTokenTTL())

	serviceContainer := services.NewServiceContainer(services.Dependencies{
		JWT:     jwtManager,
		Mailer:  mailer,
		Storage: storageInstance,
		TTLs: services.AuthTTLs{
			RefreshToken:     cfg.RefreshTokenTTL(),
			VerificationCode: cfg.VerificationCodeTTL(),
			ResetCode:        cfg.ResetCodeTTL(),
		},
		Upload: services.UploadConfig{
			MaxFileSize:  cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
	})

	appHandlers := initializeHandlers(cfg, serviceContainer, gormDB)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	if stop != nil {
		limiter.StartCleanup(5*time.Minute, stop)
	}
	guards := middleware.NewGuards(jwtManager, limiter)

	registry := metrics.NewRegistry()

	ginRouter := initializeGinRouter(cfg, gormDB)

	var static *routes.Static
	if local, ok := storageInstance.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		static = &routes.Static{URLPrefix: cfg.Storage.BaseURL, Dir: local.BasePath()}
	}

	routes.RegisterRoutes(ginRouter, appHandlers, guards, metrics.Handler(registry), static)

	return ginRouter, nil
}

// buildMailer: SMTP при email.enabled, иначе письма только в лог
func buildMailer(cfg *config.Config, provider email.Provider) (email.Mailer, error) {
	if provider == nil {
		if cfg.Email.Enabled {
			provider = email.NewSMTPProvider(email.ConfigFromApp(cfg))
		} else {
			logger.Warn("Email delivery disabled, codes are written to the log")
			provider = email.LogProvider{}
		}
	}
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email provider config: %w", err)
	}

	templates, err := email.NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	from := cfg.Email.FromEmail
	if cfg.Email.FromName != "" && from != "" {
		from = fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail)
	}
	return email.NewCodeMailer(provider, templates, from), nil
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer, gormDB *gorm.DB) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, services.AuthService),
		PaymentHandler:  handlers.NewPaymentHandler(baseHandler, services.PaymentService),
		CurrencyHandler: handlers.NewCurrencyHandler(baseHandler, services.LedgerService),
		WithdrawHandler: handlers.NewWithdrawHandler(baseHandler, services.WithdrawService),
		ComicHandler:    handlers.NewComicHandler(baseHandler, services.CatalogService),
		ChapterHandler:  handlers.NewChapterHandler(baseHandler, services.CatalogService),
		UploadHandler:   handlers.NewUploadHandler(baseHandler, services.UploadService, cfg.Upload.MaxSize),
		HealthHandler:   handlers.NewHealthHandler(gormDB),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// SeedAdmin создает администратора из конфига, если его еще нет.
// Существующий пользователь с этим email повышается до admin.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	if adminEmail == "" || cfg.Admin.Password == "" {
		logger.Warn("admin.email or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	existing, err := userRepo.FindByEmail(tx, adminEmail)
	if err == nil {
		if existing.Role != models.UserRoleAdmin {
			if err := userRepo.UpdateRole(tx, existing.ID, models.UserRoleAdmin); err != nil {
				return fmt.Errorf("failed to promote admin user: %w", err)
			}
			logger.Warn("Existing user promoted to admin", "email", adminEmail)
		}
		return tx.Commit().Error
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	fullName := cfg.Admin.FullName
	if fullName == "" {
		fullName = "Administrator"
	}
	admin := &models.User{
		FullName:      fullName,
		Email:         adminEmail,
		PasswordHash:  &hash,
		Role:          models.UserRoleAdmin,
		Status:        models.UserStatusActive,
		EmailVerified: true,
	}
	if err := userRepo.Create(tx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Admin user created", "email", adminEmail)
	return tx.Commit().Error
}

func waitForShutdown(server *http.Server, stop chan struct{}) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	close(stop)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	logger.Info("shutdown started")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return
	}
	logger.Info("shutdown complete")
}
