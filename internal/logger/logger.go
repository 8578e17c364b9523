package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

var log *slog.Logger

// Init инициализирует глобальный логгер.
// env: "development", "production" или "test" (тесты пишут только warn и выше)
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

// InitWithWriter - то же, что Init, но с произвольным выводом
func InitWithWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: env != "test",
	}

	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		opts.Level = slog.LevelWarn
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает логгер с дополнительными полями
// Пример: logger.With("chapter_id", id).Info("pages reordered")
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// DBLog логирует операцию с базой. Медленные и упавшие запросы - warn/error.
func DBLog(operation, query string, duration time.Duration, rows int64, err error) {
	fields := []any{
		"operation", operation,
		"query", query,
		"rows", rows,
		"duration_ms", duration.Milliseconds(),
	}

	switch {
	case err != nil:
		fields = append(fields, "error", err.Error())
		GetLogger().Error("database operation failed", fields...)
	case operation == "slow":
		GetLogger().Warn("slow database operation", fields...)
	default:
		GetLogger().Debug("database operation", fields...)
	}
}
