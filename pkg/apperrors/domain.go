package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки предметной области.
Сервисы возвращают их как есть, хендлеры пропускают через HandleError.
*/

// ErrInvalidOperation - нарушение бизнес-правила (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrAccessDenied - ответ middleware для запросов без валидного токена
var ErrAccessDenied = New(
	CodeUnauthorized,
	"auth",
	"Access denied",
	http.StatusUnauthorized,
)

// --- Auth ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrSocialLoginOnly - у аккаунта нет пароля, вход только через провайдера
var ErrSocialLoginOnly = New(
	CodeSocialLoginOnly,
	"auth",
	"This account uses social login",
	http.StatusBadRequest,
)

// ErrInvalidToken - refresh токен не найден, отозван или истек
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrInvalidCode - одноразовый код не найден, истек или уже использован
var ErrInvalidCode = New(
	CodeInvalidCode,
	"auth",
	"Invalid or expired code",
	http.StatusBadRequest,
)

var ErrWrongPassword = New(
	CodeInvalidOperation,
	"auth",
	"Current password is incorrect",
	http.StatusBadRequest,
)

// ErrInvalidPassword - пароль короче 6 символов или длиннее 72 байт
var ErrInvalidPassword = New(
	CodeBadRequest,
	"auth",
	"Password must be at least 6 characters and at most 72 bytes long",
	http.StatusBadRequest,
)

var ErrPasswordNotSet = New(
	CodeInvalidOperation,
	"auth",
	"Password is not set for this account",
	http.StatusBadRequest,
)

var ErrUserBanned = New(
	CodeForbidden,
	"auth",
	"Your account has been banned",
	http.StatusForbidden,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// ErrUnknownEmail - повторная отправка кода на незарегистрированный email
var ErrUnknownEmail = New(
	CodeBadRequest,
	"auth",
	"Email is not registered",
	http.StatusBadRequest,
)

// --- Payments & Ledger ---

var ErrPurchaseRequired = New(
	CodePurchaseRequired,
	"payment",
	"Purchase required",
	http.StatusForbidden,
)

var ErrInsufficientBalance = New(
	CodeInsufficientBalance,
	"ledger",
	"Insufficient balance",
	http.StatusBadRequest,
)

var ErrTransactionNotFound = New(
	CodeNotFound,
	"payment",
	"Transaction not found",
	http.StatusNotFound,
)

var ErrWithdrawNotFound = New(
	CodeNotFound,
	"withdraw",
	"Withdraw request not found",
	http.StatusNotFound,
)

// --- Catalog ---

var ErrComicNotFound = New(
	CodeNotFound,
	"catalog",
	"Comic not found",
	http.StatusNotFound,
)

var ErrChapterNotFound = New(
	CodeNotFound,
	"catalog",
	"Chapter not found",
	http.StatusNotFound,
)

var ErrPageNotFound = New(
	CodeNotFound,
	"catalog",
	"Page not found",
	http.StatusNotFound,
)

var ErrSlugAlreadyExists = New(
	CodeAlreadyExists,
	"catalog",
	"Slug already in use",
	http.StatusConflict,
)

// ErrDuplicatePageOrder - повтор порядковых номеров страниц в запросе или в главе
var ErrDuplicatePageOrder = New(
	CodeConflict,
	"catalog",
	"Duplicate page order",
	http.StatusBadRequest,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Transport ---

var ErrTooManyRequests = New(
	CodeLimitExceeded,
	"request",
	"Too many requests",
	http.StatusTooManyRequests,
)
