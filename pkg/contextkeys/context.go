package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ для *gorm.DB в gin.Context
const DBContextKey = "db"

// Ключи идентичности, выставляемые AuthMiddleware
const (
	UserIDKey   = "userID"
	RoleKey     = "role"
	IdentityKey = "identity"
)

// RequestIDKey - ключ request id в context.Context
const RequestIDKey = contextKey("request_id")
