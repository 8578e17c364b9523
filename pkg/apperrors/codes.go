package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Бизнес-логика
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeAlreadyExists       ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	CodeBadRequest          ErrorCode = "BAD_REQUEST"
	CodeConflict            ErrorCode = "CONFLICT"
	CodeLimitExceeded       ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus       ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation    ErrorCode = "INVALID_OPERATION"
	CodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	CodePurchaseRequired    ErrorCode = "PURCHASE_REQUIRED"
	CodeInvalidCode         ErrorCode = "INVALID_CODE"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeSocialLoginOnly    ErrorCode = "SOCIAL_LOGIN_ONLY"
)
