package apperrors

import (
	"comicweb_backend/internal/logger"
	"comicweb_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError переводит ошибку в конверт. Причина 5xx остается только в логах.
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	ctx := c.Request.Context()
	if appErr.HTTPCode >= 500 {
		logger.CtxError(ctx, "Server error",
			"error", appErr.Unwrap(),
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
	} else if h.Debug {
		logger.CtxDebug(ctx, "Request failed",
			"code", appErr.Code,
			"domain", appErr.Domain,
			"status", appErr.HTTPCode,
		)
	}

	var data interface{}
	if appErr.HTTPCode < 500 {
		data = appErr.Details
	}
	response.AbortJSON(c, appErr.HTTPCode, appErr.Message, data)
}

// debugErrors включается в app при не-production окружении
var debugErrors bool

// SetDebug переключает подробное логирование клиентских ошибок
func SetDebug(debug bool) {
	debugErrors = debug
}

func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: debugErrors}
	handler.HandleGinError(c, err)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
