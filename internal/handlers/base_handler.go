package handlers

import (
	"fmt"
	"net/http"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/validator"
	"comicweb_backend/pkg/apperrors"
	"comicweb_backend/pkg/contextkeys"
	"comicweb_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// ============================================================================
// 2. DB и identity из gin.Context
// ============================================================================

// GetDB извлекает *gorm.DB из gin.Context и привязывает его к контексту запроса.
// Вызывается в каждом хендлере, который обращается к сервисам.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	val, ok := c.Get(contextkeys.DBContextKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", contextkeys.DBContextKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db.WithContext(c.Request.Context())
}

// GetIdentity - nil на публичных маршрутах без токена
func (h *BaseHandler) GetIdentity(c *gin.Context) *auth.Identity {
	return middleware.GetIdentity(c)
}

// RequireIdentity - для маршрутов за AuthMiddleware; отсутствие identity значит ошибку роутинга
func (h *BaseHandler) RequireIdentity(c *gin.Context) (*auth.Identity, bool) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: identity not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.ErrAccessDenied)
		return nil, false
	}
	return identity, true
}

// ============================================================================
// 3. Методы привязки и валидации
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind JSON body", "error", err.Error(), "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind query params", "error", err.Error(), "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters"))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// ============================================================================
// 4. Ответы
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if appErr, ok := apperrors.AsAppError(err); ok {
		if appErr.HTTPCode < 500 {
			logger.CtxWarn(ctx, "Service error",
				"error", appErr.Message,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
		return
	}
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// OK - 200 с данными в конверте
func (h *BaseHandler) OK(c *gin.Context, message string, data interface{}) {
	response.JSON(c, http.StatusOK, message, data)
}

func (h *BaseHandler) Created(c *gin.Context, message string, data interface{}) {
	response.JSON(c, http.StatusCreated, message, data)
}
