package services_test

import (
	"strings"
	"testing"
	"time"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/services/dto"
	"comicweb_backend/internal/testutil"
	"comicweb_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, h *harness, emailAddr string) *dto.AuthResponse {
	t.Helper()
	resp, err := h.svc.AuthService.Register(h.db, &dto.RegisterRequest{
		FullName: "Reader",
		Email:    emailAddr,
		Password: testutil.DefaultPassword,
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_RegisterAndLoginClaims(t *testing.T) {
	h := newHarness(t)
	emailAddr := testutil.UniqueEmail("reader")

	reg := register(t, h, "  "+emailAddr+"  ")
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)
	assert.Equal(t, emailAddr, reg.User.Email)
	assert.False(t, reg.User.EmailVerified)

	// код уходит только письмом
	testutil.LastCode(t, h.mail, emailAddr)

	login, err := h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: emailAddr, Password: testutil.DefaultPassword})
	require.NoError(t, err)

	claims, err := h.jwt.Parse(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.Subject)
	assert.Equal(t, emailAddr, claims.Email)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	emailAddr := testutil.UniqueEmail("dup")
	register(t, h, emailAddr)

	_, err := h.svc.AuthService.Register(h.db, &dto.RegisterRequest{
		FullName: "Other",
		Email:    "DUP" + emailAddr[3:],
		Password: "another-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_RegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	h := newHarness(t)
	emailAddr := testutil.UniqueEmail("cyrillic")

	// 60 символов, но 120 байт
	_, err := h.svc.AuthService.Register(h.db, &dto.RegisterRequest{
		FullName: "Reader",
		Email:    emailAddr,
		Password: strings.Repeat("пароль", 10),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	var users int64
	require.NoError(t, h.db.Model(&models.User{}).Where("email = ?", strings.ToLower(emailAddr)).Count(&users).Error)
	assert.Zero(t, users)

	// 36 кириллических символов = 72 байта, еще допустимо
	_, err = h.svc.AuthService.Register(h.db, &dto.RegisterRequest{
		FullName: "Reader",
		Email:    emailAddr,
		Password: strings.Repeat("пароль", 6),
	})
	assert.NoError(t, err)
}

func TestAuthService_LoginFailures(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, testutil.UniqueEmail("login"), models.UserRoleUser)

	_, err := h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: user.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: "nobody@test.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	social, err := h.svc.AuthService.SocialLogin(h.db, &dto.SocialLoginRequest{Email: testutil.UniqueEmail("social"), FullName: "Social"})
	require.NoError(t, err)
	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: social.User.Email, Password: "anything"})
	assert.ErrorIs(t, err, apperrors.ErrSocialLoginOnly)

	require.NoError(t, h.db.Model(user).Update("status", models.UserStatusBanned).Error)
	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: user.Email, Password: testutil.DefaultPassword})
	assert.ErrorIs(t, err, apperrors.ErrUserBanned)
}

func TestAuthService_RefreshIsSingleUse(t *testing.T) {
	h := newHarness(t)
	reg := register(t, h, testutil.UniqueEmail("refresh"))

	rotated, err := h.svc.AuthService.Refresh(h.db, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, rotated.RefreshToken)

	_, err = h.svc.AuthService.Refresh(h.db, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = h.svc.AuthService.Refresh(h.db, rotated.RefreshToken)
	assert.NoError(t, err)

	// в БД лежит только хеш
	var stored models.RefreshToken
	require.NoError(t, h.db.Where("token_hash = ?", auth.HashSecret(rotated.RefreshToken)).First(&stored).Error)
	assert.NotEqual(t, rotated.RefreshToken, stored.TokenHash)
}

func TestAuthService_RefreshExpired(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, testutil.UniqueEmail("expired"), models.UserRoleUser)

	secret, hash, err := auth.NewRefreshSecret()
	require.NoError(t, err)
	require.NoError(t, h.db.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}).Error)

	_, err = h.svc.AuthService.Refresh(h.db, secret)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = h.svc.AuthService.Refresh(h.db, "never-issued")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	h := newHarness(t)
	reg := register(t, h, testutil.UniqueEmail("logout"))

	require.NoError(t, h.svc.AuthService.Logout(h.db, reg.RefreshToken))
	require.NoError(t, h.svc.AuthService.Logout(h.db, reg.RefreshToken))
	require.NoError(t, h.svc.AuthService.Logout(h.db, "unknown-token"))

	_, err := h.svc.AuthService.Refresh(h.db, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	h := newHarness(t)
	emailAddr := testutil.UniqueEmail("verify")
	reg := register(t, h, emailAddr)
	code := testutil.LastCode(t, h.mail, emailAddr)

	err := h.svc.AuthService.VerifyEmail(h.db, &dto.VerifyEmailRequest{Email: emailAddr, Code: code})
	require.NoError(t, err)

	me, err := h.svc.AuthService.Me(h.db, &auth.Identity{UserID: reg.User.ID})
	require.NoError(t, err)
	assert.True(t, me.EmailVerified)

	// повторное погашение того же кода
	err = h.svc.AuthService.VerifyEmail(h.db, &dto.VerifyEmailRequest{Email: emailAddr, Code: code})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCode)
}

func TestAuthService_VerifyEmailExpiredOrWrongCode(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, testutil.UniqueEmail("stale"), models.UserRoleUser)

	require.NoError(t, h.db.Create(&models.EmailVerificationCode{
		UserID:    user.ID,
		CodeHash:  auth.HashSecret("123456"),
		ExpiresAt: time.Now().UTC().Add(-time.Second),
	}).Error)

	err := h.svc.AuthService.VerifyEmail(h.db, &dto.VerifyEmailRequest{Email: user.Email, Code: "123456"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCode)

	err = h.svc.AuthService.VerifyEmail(h.db, &dto.VerifyEmailRequest{Email: user.Email, Code: "654321"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCode)
}

func TestAuthService_ForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.svc.AuthService.ForgotPassword(h.db, "ghost@test.com"))
	assert.Empty(t, h.mail.Sent())

	var codes int64
	require.NoError(t, h.db.Model(&models.PasswordResetCode{}).Count(&codes).Error)
	assert.Zero(t, codes)

	user := testutil.CreateUser(t, h.db, testutil.UniqueEmail("forgot"), models.UserRoleUser)
	require.NoError(t, h.svc.AuthService.ForgotPassword(h.db, user.Email))
	assert.Len(t, h.mail.Sent(), 1)
}

func TestAuthService_ResetPassword(t *testing.T) {
	h := newHarness(t)
	emailAddr := testutil.UniqueEmail("reset")
	reg := register(t, h, emailAddr)

	require.NoError(t, h.svc.AuthService.ForgotPassword(h.db, emailAddr))
	code := testutil.LastCode(t, h.mail, emailAddr)

	req := &dto.ResetPasswordRequest{Email: emailAddr, Code: code, NewPassword: "brand-new-password"}
	require.NoError(t, h.svc.AuthService.ResetPassword(h.db, req))

	// старые сессии отозваны
	_, err := h.svc.AuthService.Refresh(h.db, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: emailAddr, Password: testutil.DefaultPassword})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: emailAddr, Password: "brand-new-password"})
	assert.NoError(t, err)

	assert.ErrorIs(t, h.svc.AuthService.ResetPassword(h.db, req), apperrors.ErrInvalidCode)
}

func TestAuthService_ResetPasswordExpired(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, testutil.UniqueEmail("reset-stale"), models.UserRoleUser)

	require.NoError(t, h.db.Create(&models.PasswordResetCode{
		UserID:    user.ID,
		CodeHash:  auth.HashSecret("246810"),
		ExpiresAt: time.Now().UTC().Add(-time.Second),
	}).Error)

	err := h.svc.AuthService.ResetPassword(h.db, &dto.ResetPasswordRequest{
		Email:       user.Email,
		Code:        "246810",
		NewPassword: "brand-new-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCode)

	// пароль не изменился, код не погашен
	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: user.Email, Password: testutil.DefaultPassword})
	assert.NoError(t, err)

	var code models.PasswordResetCode
	require.NoError(t, h.db.First(&code, "user_id = ?", user.ID).Error)
	assert.Nil(t, code.UsedAt)
}

func TestAuthService_ResetPasswordKeepsCodeOnInvalidPassword(t *testing.T) {
	h := newHarness(t)
	emailAddr := testutil.UniqueEmail("reset-long")
	register(t, h, emailAddr)

	require.NoError(t, h.svc.AuthService.ForgotPassword(h.db, emailAddr))
	code := testutil.LastCode(t, h.mail, emailAddr)

	err := h.svc.AuthService.ResetPassword(h.db, &dto.ResetPasswordRequest{
		Email:       emailAddr,
		Code:        code,
		NewPassword: strings.Repeat("ж", 40),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	err = h.svc.AuthService.ResetPassword(h.db, &dto.ResetPasswordRequest{
		Email:       emailAddr,
		Code:        code,
		NewPassword: "brand-new-password",
	})
	assert.NoError(t, err)
}

func TestAuthService_ResendVerification(t *testing.T) {
	h := newHarness(t)

	err := h.svc.AuthService.ResendVerification(h.db, "unknown@test.com")
	assert.ErrorIs(t, err, apperrors.ErrUnknownEmail)

	emailAddr := testutil.UniqueEmail("resend")
	register(t, h, emailAddr)
	first := testutil.LastCode(t, h.mail, emailAddr)

	require.NoError(t, h.svc.AuthService.ResendVerification(h.db, emailAddr))
	second := testutil.LastCode(t, h.mail, emailAddr)
	assert.Len(t, h.mail.Sent(), 2)

	// оба кода действительны до погашения
	require.NoError(t, h.svc.AuthService.VerifyEmail(h.db, &dto.VerifyEmailRequest{Email: emailAddr, Code: second}))
	if first != second {
		assert.NoError(t, h.svc.AuthService.VerifyEmail(h.db, &dto.VerifyEmailRequest{Email: emailAddr, Code: first}))
	}
}

func TestAuthService_SocialLogin(t *testing.T) {
	h := newHarness(t)
	req := &dto.SocialLoginRequest{Email: testutil.UniqueEmail("google"), FullName: "Google User"}

	first, err := h.svc.AuthService.SocialLogin(h.db, req)
	require.NoError(t, err)
	assert.True(t, first.User.EmailVerified)
	assert.False(t, first.User.HasPassword)

	second, err := h.svc.AuthService.SocialLogin(h.db, req)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	err = h.svc.AuthService.UpdatePassword(h.db, &auth.Identity{UserID: first.User.ID}, &dto.UpdatePasswordRequest{
		CurrentPassword: "x",
		NewPassword:     "new-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrPasswordNotSet)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, testutil.UniqueEmail("update"), models.UserRoleUser)
	actor := testutil.Identity(user)

	err := h.svc.AuthService.UpdatePassword(h.db, actor, &dto.UpdatePasswordRequest{
		CurrentPassword: "not-my-password",
		NewPassword:     "new-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)

	require.NoError(t, h.svc.AuthService.UpdatePassword(h.db, actor, &dto.UpdatePasswordRequest{
		CurrentPassword: testutil.DefaultPassword,
		NewPassword:     "new-password",
	}))
	_, err = h.svc.AuthService.Login(h.db, &dto.LoginRequest{Email: user.Email, Password: "new-password"})
	assert.NoError(t, err)
}

func TestAuthService_MeForMissingUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.AuthService.Me(h.db, &auth.Identity{UserID: "00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
