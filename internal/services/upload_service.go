package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/logger"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/services/dto"
	"comicweb_backend/internal/storage"
	"comicweb_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UploadService interface {
	UploadFile(db *gorm.DB, actor *auth.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

// UploadConfig - ограничения на загружаемые файлы
type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
}

type uploadService struct {
	uploadRepo repositories.UploadRepository
	storage    storage.Storage
	config     UploadConfig
}

func NewUploadService(uploadRepo repositories.UploadRepository, storage storage.Storage, config UploadConfig) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		storage:    storage,
		config:     config,
	}
}

// UploadFile - файл пишется в storage, затем запись в БД. При ошибке БД файл удаляется.
func (s *uploadService) UploadFile(db *gorm.DB, actor *auth.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	ctx := requestContext(db)

	if s.config.MaxFileSize > 0 && file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	// тип определяем по содержимому, заголовок клиента не доверенный
	head := make([]byte, 512)
	n, _ := src.Read(head)
	mimeType := detectMimeType(head[:n], file.Filename)
	if !s.isAllowed(mimeType) {
		return nil, apperrors.ErrInvalidFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(err)
	}

	storagePath := path.Join(actor.UserID, time.Now().UTC().Format("2006/01"), generateFileName(file.Filename))
	written, err := s.storage.Save(ctx, storagePath, src)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"declaredType": file.Header.Get("Content-Type"),
		"extension":    strings.ToLower(filepath.Ext(file.Filename)),
	})
	upload := &models.Upload{
		UserID:          actor.UserID,
		OriginalName:    filepath.Base(file.Filename),
		Path:            storagePath,
		URL:             s.storage.URL(storagePath),
		MimeType:        mimeType,
		Size:            written,
		StorageProvider: s.storage.Name(),
		Metadata:        datatypes.JSON(metadata),
	}
	if err := s.uploadRepo.Create(db, upload); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			logger.CtxWithError(ctx, "failed to remove orphaned upload", delErr, "path", storagePath)
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.UploadResponse{
		ID:           upload.ID,
		URL:          upload.URL,
		OriginalName: upload.OriginalName,
		MimeType:     upload.MimeType,
		Size:         upload.Size,
		CreatedAt:    upload.CreatedAt,
	}, nil
}

func (s *uploadService) isAllowed(mimeType string) bool {
	if len(s.config.AllowedTypes) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedTypes {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}

func detectMimeType(head []byte, filename string) string {
	detected := http.DetectContentType(head)
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	if detected == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			if i := strings.Index(byExt, ";"); i >= 0 {
				byExt = byExt[:i]
			}
			return byExt
		}
	}
	return detected
}

func generateFileName(original string) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), hex.EncodeToString(buf), strings.ToLower(filepath.Ext(original)))
}
