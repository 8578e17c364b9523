package dto

import (
	"time"
)

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,password_bytes"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest - обмен refresh токена на новую пару
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,otp_code"`
	NewPassword string `json:"newPassword" validate:"required,min=6,password_bytes"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,otp_code"`
}

type ResendConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest - смена пароля авторизованным пользователем
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,password_bytes"`
}

// SocialLoginRequest - утверждение внешнего провайдера (проверено выше по цепочке)
type SocialLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,max=255"`
}

// AuthResponse - пара токенов
type AuthResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	TokenType        string    `json:"tokenType"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	User             UserDTO   `json:"user"`
}

type UserDTO struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"emailVerified"`
	HasPassword   bool      `json:"hasPassword"`
	AvatarURL     *string   `json:"avatarUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}
