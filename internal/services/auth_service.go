package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/email"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/metrics"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/services/dto"
	"comicweb_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(db *gorm.DB, actor *auth.Identity) (*dto.UserDTO, error)
	Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error

	ForgotPassword(db *gorm.DB, email string) error
	ResetPassword(db *gorm.DB, req *dto.ResetPasswordRequest) error
	VerifyEmail(db *gorm.DB, req *dto.VerifyEmailRequest) error
	ResendVerification(db *gorm.DB, email string) error

	SocialLogin(db *gorm.DB, req *dto.SocialLoginRequest) (*dto.AuthResponse, error)
	UpdatePassword(db *gorm.DB, actor *auth.Identity, req *dto.UpdatePasswordRequest) error
}

// AuthTTLs - сроки жизни refresh токена и одноразовых кодов
type AuthTTLs struct {
	RefreshToken     time.Duration
	VerificationCode time.Duration
	ResetCode        time.Duration
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	codeRepo  repositories.AuthCodeRepository
	jwt       *auth.JWTManager
	mailer    email.Mailer
	ttl       AuthTTLs
	now       func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	codeRepo repositories.AuthCodeRepository,
	jwt *auth.JWTManager,
	mailer email.Mailer,
	ttl AuthTTLs,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		codeRepo:  codeRepo,
		jwt:       jwt,
		mailer:    mailer,
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// normalizeEmail - trim + lower, единый ключ поиска пользователя
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register - пользователь, код подтверждения и refresh токен в одной транзакции
func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	emailAddr := normalizeEmail(req.Email)

	if _, err := s.userRepo.FindByEmail(db, emailAddr); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := hashNewPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        emailAddr,
		PasswordHash: &hash,
		Role:         models.UserRoleUser,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		// гонка двух регистраций упирается в уникальный индекс
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	code, err := s.createVerificationCode(tx, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	ctx := requestContext(db)
	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.FullName, code, s.ttl.VerificationCode); err != nil {
		// аккаунт уже создан, код можно запросить повторно
		logger.CtxWithError(ctx, "failed to deliver verification code", err, "user_id", user.ID)
	}

	logger.AuthEvent(ctx, "register", "user_id", user.ID)
	metrics.AuthResult("register", nil)
	return resp, nil
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	resp, err := s.login(db, req)
	metrics.AuthResult("login", err)
	return resp, err
}

func (s *authService) login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.HasPassword() {
		return nil, apperrors.ErrSocialLoginOnly
	}
	if !auth.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrUserBanned
	}

	resp, err := s.issueTokens(db, user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.AuthEvent(requestContext(db), "login", "user_id", user.ID)
	return resp, nil
}

func (s *authService) Me(db *gorm.DB, actor *auth.Identity) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	out := toUserDTO(user)
	return &out, nil
}

// Refresh - ротация: предъявленный токен отзывается, новая пара выдается в той же транзакции
func (s *authService) Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	resp, err := s.refresh(db, refreshToken)
	metrics.AuthResult("refresh", err)
	return resp, err
}

func (s *authService) refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.tokenRepo.FindByHash(db, auth.HashSecret(refreshToken))
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !stored.IsActive(s.now()) {
		return nil, apperrors.ErrInvalidToken
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	revoked, err := s.tokenRepo.Revoke(tx, stored.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !revoked {
		// параллельный обмен того же токена уже выиграл
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(tx, stored.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrUserBanned
	}

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// Logout идемпотентен: неизвестный или уже отозванный токен - не ошибка
func (s *authService) Logout(db *gorm.DB, refreshToken string) error {
	stored, err := s.tokenRepo.FindByHash(db, auth.HashSecret(refreshToken))
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}
	if _, err := s.tokenRepo.Revoke(db, stored.ID); err != nil {
		return apperrors.InternalError(err)
	}
	logger.AuthEvent(requestContext(db), "logout", "user_id", stored.UserID)
	return nil
}

// ForgotPassword всегда успешен для существующего и несуществующего email
func (s *authService) ForgotPassword(db *gorm.DB, emailAddr string) error {
	ctx := requestContext(db)

	user, err := s.userRepo.FindByEmail(db, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	code, hash, err := auth.NewNumericCode()
	if err != nil {
		return apperrors.InternalError(err)
	}
	reset := &models.PasswordResetCode{
		UserID:    user.ID,
		CodeHash:  hash,
		ExpiresAt: s.now().Add(s.ttl.ResetCode),
	}
	if err := s.codeRepo.CreateReset(db, reset); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.mailer.SendPasswordResetCode(ctx, user.Email, user.FullName, code, s.ttl.ResetCode); err != nil {
		logger.CtxWithError(ctx, "failed to deliver password reset code", err, "user_id", user.ID)
	}
	logger.AuthEvent(ctx, "password_reset_requested", "user_id", user.ID)
	return nil
}

// ResetPassword - погашение кода, новый хеш и отзыв всех refresh токенов атомарно
func (s *authService) ResetPassword(db *gorm.DB, req *dto.ResetPasswordRequest) error {
	err := s.resetPassword(db, req)
	metrics.AuthResult("reset_password", err)
	return err
}

func (s *authService) resetPassword(db *gorm.DB, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidCode
		}
		return apperrors.InternalError(err)
	}

	code, err := s.codeRepo.FindReset(db, user.ID, auth.HashSecret(req.Code))
	if err != nil {
		if errors.Is(err, repositories.ErrCodeNotFound) {
			return apperrors.ErrInvalidCode
		}
		return apperrors.InternalError(err)
	}
	now := s.now()
	if code.UsedAt != nil || !now.Before(code.ExpiresAt) {
		return apperrors.ErrInvalidCode
	}

	hash, err := hashNewPassword(req.NewPassword)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	consumed, err := s.codeRepo.ConsumeReset(tx, code.ID, now)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !consumed {
		return apperrors.ErrInvalidCode
	}
	if err := s.userRepo.UpdatePassword(tx, user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}
	if _, err := s.tokenRepo.RevokeAllForUser(tx, user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	logger.AuthEvent(requestContext(db), "password_reset", "user_id", user.ID)
	return nil
}

func (s *authService) VerifyEmail(db *gorm.DB, req *dto.VerifyEmailRequest) error {
	err := s.verifyEmail(db, req)
	metrics.AuthResult("verify_email", err)
	return err
}

func (s *authService) verifyEmail(db *gorm.DB, req *dto.VerifyEmailRequest) error {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidCode
		}
		return apperrors.InternalError(err)
	}

	code, err := s.codeRepo.FindVerification(db, user.ID, auth.HashSecret(req.Code))
	if err != nil {
		if errors.Is(err, repositories.ErrCodeNotFound) {
			return apperrors.ErrInvalidCode
		}
		return apperrors.InternalError(err)
	}
	now := s.now()
	if code.VerifiedAt != nil || !now.Before(code.ExpiresAt) {
		return apperrors.ErrInvalidCode
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	consumed, err := s.codeRepo.ConsumeVerification(tx, code.ID, now)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !consumed {
		return apperrors.ErrInvalidCode
	}
	if err := s.userRepo.MarkEmailVerified(tx, user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	logger.AuthEvent(requestContext(db), "email_verified", "user_id", user.ID)
	return nil
}

// ResendVerification - новый код на 24ч. Ошибка доставки возвращается клиенту.
func (s *authService) ResendVerification(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUnknownEmail
		}
		return apperrors.InternalError(err)
	}

	code, err := s.createVerificationCode(db, user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	ctx := requestContext(db)
	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.FullName, code, s.ttl.VerificationCode); err != nil {
		return apperrors.InternalError(err)
	}
	logger.AuthEvent(ctx, "verification_resent", "user_id", user.ID)
	return nil
}

// SocialLogin доверяет (email, fullName) от внешнего провайдера.
// Аккаунт создается без пароля и сразу подтвержденным.
func (s *authService) SocialLogin(db *gorm.DB, req *dto.SocialLoginRequest) (*dto.AuthResponse, error) {
	resp, err := s.socialLogin(db, req)
	metrics.AuthResult("social_login", err)
	return resp, err
}

func (s *authService) socialLogin(db *gorm.DB, req *dto.SocialLoginRequest) (*dto.AuthResponse, error) {
	emailAddr := normalizeEmail(req.Email)

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, emailAddr)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		user = &models.User{
			FullName:      strings.TrimSpace(req.FullName),
			Email:         emailAddr,
			Role:          models.UserRoleUser,
			Status:        models.UserStatusActive,
			EmailVerified: true,
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			if errors.Is(err, repositories.ErrUserAlreadyExists) {
				return nil, apperrors.ErrEmailAlreadyExists
			}
			return nil, apperrors.InternalError(err)
		}
	case err != nil:
		return nil, apperrors.InternalError(err)
	}

	if user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrUserBanned
	}

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.AuthEvent(requestContext(db), "social_login", "user_id", user.ID)
	return resp, nil
}

func (s *authService) UpdatePassword(db *gorm.DB, actor *auth.Identity, req *dto.UpdatePasswordRequest) error {
	user, err := s.userRepo.FindByID(db, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !user.HasPassword() {
		return apperrors.ErrPasswordNotSet
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, *user.PasswordHash) {
		return apperrors.ErrWrongPassword
	}

	hash, err := hashNewPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(db, user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}

	logger.AuthEvent(requestContext(db), "password_changed", "user_id", user.ID)
	return nil
}

// issueTokens сохраняет хеш нового refresh токена и подписывает access токен
// hashNewPassword - длина проверяется до bcrypt, иначе слишком длинный пароль дает 500
func hashNewPassword(password string) (string, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return "", apperrors.ErrInvalidPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return hash, nil
}

func (s *authService) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	secret, hash, err := auth.NewRefreshSecret()
	if err != nil {
		return nil, err
	}

	refreshExpires := s.now().Add(s.ttl.RefreshToken)
	if err := s.tokenRepo.Create(db, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: refreshExpires,
	}); err != nil {
		return nil, err
	}

	access, accessExpires, err := s.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:      access,
		RefreshToken:     secret,
		TokenType:        "Bearer",
		AccessExpiresAt:  accessExpires,
		RefreshExpiresAt: refreshExpires,
		User:             toUserDTO(user),
	}, nil
}

func (s *authService) createVerificationCode(db *gorm.DB, userID string) (string, error) {
	code, hash, err := auth.NewNumericCode()
	if err != nil {
		return "", err
	}
	err = s.codeRepo.CreateVerification(db, &models.EmailVerificationCode{
		UserID:    userID,
		CodeHash:  hash,
		ExpiresAt: s.now().Add(s.ttl.VerificationCode),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func toUserDTO(user *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:            user.ID,
		FullName:      user.FullName,
		Email:         user.Email,
		Role:          string(user.Role),
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		HasPassword:   user.HasPassword(),
		AvatarURL:     user.AvatarURL,
		CreatedAt:     user.CreatedAt,
	}
}

// requestContext - контекст запроса, к которому привязан db
func requestContext(db *gorm.DB) context.Context {
	if db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}
