package handlers

import (
	"errors"
	"net/http"

	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/services"
	"comicweb_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// multipartOverhead - запас на заголовки multipart поверх лимита файла
const multipartOverhead = 1 << 20

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	maxFileSize   int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		maxFileSize:   maxFileSize,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, g *middleware.Guards) {
	uploads := rg.Group("/uploads")
	uploads.Use(g.Auth)
	{
		uploads.POST("", h.UploadFile)
	}
}

// UploadFile - multipart поле "file"; в ответе публичный URL
func (h *UploadHandler) UploadFile(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apperrors.HandleError(c, apperrors.ErrFileTooLarge)
			return
		}
		apperrors.HandleError(c, apperrors.NewBadRequestError("No file provided"))
		return
	}

	resp, err := h.uploadService.UploadFile(h.GetDB(c), identity, fileHeader)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "File uploaded", resp)
}
