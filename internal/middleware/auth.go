package middleware

import (
	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/models"
	"comicweb_backend/pkg/apperrors"
	"comicweb_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - проверка bearer токена. Без токена запрос дальше не идет.
func AuthMiddleware(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := authenticate(c, jwt)
		if !ok {
			logger.CtxWarn(c.Request.Context(), "Access denied",
				"path", c.Request.URL.Path,
				"ip", c.ClientIP(),
			)
			apperrors.HandleError(c, apperrors.ErrAccessDenied)
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuthMiddleware - анонимный запрос пропускается, битый токен тоже считается анонимным
func OptionalAuthMiddleware(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := authenticate(c, jwt); ok {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

// RequireRoles - после AuthMiddleware. Роль берется из токена.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[string(r)] = true
	}

	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			apperrors.HandleError(c, apperrors.ErrAccessDenied)
			return
		}
		if !roleSet[identity.Role] {
			logger.CtxWarn(c.Request.Context(), "Insufficient role",
				"role", identity.Role,
				"path", c.Request.URL.Path,
			)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles(models.UserRoleAdmin)
}

// GetIdentity - nil для анонимного запроса
func GetIdentity(c *gin.Context) *auth.Identity {
	val, exists := c.Get(contextkeys.IdentityKey)
	if !exists {
		return nil
	}
	identity, _ := val.(*auth.Identity)
	return identity
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func authenticate(c *gin.Context, jwt *auth.JWTManager) (*auth.Identity, bool) {
	token := auth.ExtractBearer(c.GetHeader("Authorization"))
	if token == "" {
		return nil, false
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, false
	}
	return auth.IdentityFromClaims(claims), true
}

func setIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set(contextkeys.IdentityKey, identity)
	c.Set(contextkeys.UserIDKey, identity.UserID)
	c.Set(contextkeys.RoleKey, identity.Role)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), identity.UserID))
}
