package routes

import (
	"net/http"

	"comicweb_backend/internal/handlers"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/middleware"
	"comicweb_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// Static - раздача загруженных файлов локального хранилища
type Static struct {
	URLPrefix string
	Dir       string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guards *middleware.Guards,
	metricsHandler http.Handler,
	static *Static,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/metrics", gin.WrapH(metricsHandler))

	if static != nil && static.URLPrefix != "" && static.Dir != "" {
		ginRouter.Static(static.URLPrefix, static.Dir)
	}

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, guards)
		appHandlers.PaymentHandler.RegisterRoutes(api, guards)
		appHandlers.CurrencyHandler.RegisterRoutes(api, guards)
		appHandlers.WithdrawHandler.RegisterRoutes(api, guards)
		appHandlers.ComicHandler.RegisterRoutes(api, guards)
		appHandlers.ChapterHandler.RegisterRoutes(api, guards)
		appHandlers.UploadHandler.RegisterRoutes(api, guards)
	}

	ginRouter.NoRoute(func(c *gin.Context) {
		response.AbortJSON(c, http.StatusNotFound, "Route not found", nil)
	})

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
