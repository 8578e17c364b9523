package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// поля запроса, которые попадают в каждую строку лога
type requestFields struct {
	requestID string
	userID    string
}

func fieldsFrom(ctx context.Context) requestFields {
	if ctx == nil {
		return requestFields{}
	}
	f, _ := ctx.Value(ctxKey{}).(requestFields)
	return f
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	f := fieldsFrom(ctx)
	f.requestID = requestID
	return context.WithValue(ctx, ctxKey{}, f)
}

// WithUserID вызывается из auth middleware после проверки токена
func WithUserID(ctx context.Context, userID string) context.Context {
	f := fieldsFrom(ctx)
	f.userID = userID
	return context.WithValue(ctx, ctxKey{}, f)
}

func GetRequestID(ctx context.Context) string {
	return fieldsFrom(ctx).requestID
}

// FromContext - глобальный логгер с request_id/user_id, если они есть
func FromContext(ctx context.Context) *slog.Logger {
	f := fieldsFrom(ctx)
	attrs := make([]any, 0, 4)
	if f.requestID != "" {
		attrs = append(attrs, "request_id", f.requestID)
	}
	if f.userID != "" {
		attrs = append(attrs, "user_id", f.userID)
	}
	if len(attrs) == 0 {
		return GetLogger()
	}
	return GetLogger().With(attrs...)
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).Error(msg, append([]any{"error", err.Error()}, args...)...)
}

// AuthEvent - событие безопасности (вход, refresh, сброс пароля).
// Секреты сюда никогда не передаются, только идентификаторы.
func AuthEvent(ctx context.Context, event string, args ...any) {
	FromContext(ctx).Info("auth event", append([]any{"event", event}, args...)...)
}
