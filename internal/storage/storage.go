package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"comicweb_backend/internal/config"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Storage - хранилище файлов. Наружу отдает только публичный URL.
type Storage interface {
	// Save сохраняет содержимое и возвращает число записанных байт
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)

	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)

	// URL возвращает публичный адрес файла
	URL(path string) string

	// Name - идентификатор провайдера для записи в uploads
	Name() string
}

type Config struct {
	Type     string // local
	BasePath string
	BaseURL  string
}

func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	}
}

// NewStorage создает хранилище по конфигу
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
