package middleware

import (
	"comicweb_backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// Guards - middleware доступа, которые хендлеры вешают на свои группы
type Guards struct {
	Auth      gin.HandlerFunc
	Optional  gin.HandlerFunc
	Admin     gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

func NewGuards(jwt *auth.JWTManager, limiter *RateLimiter) *Guards {
	return &Guards{
		Auth:      AuthMiddleware(jwt),
		Optional:  OptionalAuthMiddleware(jwt),
		Admin:     AdminMiddleware(),
		RateLimit: limiter.Handler(),
	}
}
