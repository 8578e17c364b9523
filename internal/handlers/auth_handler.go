package handlers

import (
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты /auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, g *middleware.Guards) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", g.RateLimit, h.Login)
		auth.POST("/refetchToken", h.RefreshToken)
		auth.POST("/forgot-password", g.RateLimit, h.ForgotPassword)
		// маршруты, принимающие 6-значный код, ограничены вместе с login
		auth.POST("/reset-password", g.RateLimit, h.ResetPassword)
		auth.POST("/verify", g.RateLimit, h.VerifyEmail)
		auth.POST("/resend-confirm", g.RateLimit, h.ResendConfirm)
		auth.POST("/google", h.SocialLogin)
	}

	protected := rg.Group("/auth")
	protected.Use(g.Auth)
	{
		protected.GET("/me", h.Me)
		protected.POST("/logout", h.Logout)
		protected.POST("/update-password", h.UpdatePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Registration successful. Please check your email to verify your account.", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Login successful", resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", user)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Refresh(h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Token refreshed", resp)
}

// Logout всегда 200: неизвестный или уже отозванный токен не ошибка
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Logout(h.GetDB(c), req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Logged out successfully", nil)
}

// ForgotPassword отвечает одинаково для известных и неизвестных email
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ForgotPassword(h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "If the email is registered, a reset code has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Password has been reset", nil)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.VerifyEmail(h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Email verified successfully", nil)
}

func (h *AuthHandler) ResendConfirm(c *gin.Context) {
	var req dto.ResendConfirmRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendVerification(h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Verification code sent", nil)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.UpdatePassword(h.GetDB(c), identity, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Password updated", nil)
}

// SocialLogin - вход через внешнего провайдера (профиль уже проверен клиентом провайдера)
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req dto.SocialLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.SocialLogin(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Login successful", resp)
}
