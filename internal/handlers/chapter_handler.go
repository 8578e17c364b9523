package handlers

import (
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ChapterHandler - главы и их страницы
type ChapterHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewChapterHandler(base *BaseHandler, catalogService services.CatalogService) *ChapterHandler {
	return &ChapterHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

func (h *ChapterHandler) RegisterRoutes(rg *gin.RouterGroup, g *middleware.Guards) {
	public := rg.Group("/chapters")
	{
		public.GET("", h.ListChapters)
		public.GET("/:id", h.GetChapter)
	}

	// чтение страниц: аноним видит только бесплатные главы
	reader := rg.Group("/chapters")
	reader.Use(g.Optional)
	{
		reader.GET("/:id/pages", h.GetPages)
		reader.GET("/slug/:slug/pages", h.GetPagesBySlug)
	}

	manage := rg.Group("/chapters")
	manage.Use(g.Auth)
	{
		manage.POST("", h.CreateChapter)
		manage.PUT("/:id", h.UpdateChapter)
		manage.DELETE("/:id", h.DeleteChapter)
		manage.POST("/:id/pages", h.AddPages)
		manage.PUT("/:id/pages/reorder", h.ReorderPages)
		manage.DELETE("/:id/pages/:pageId", h.DeletePage)
	}
}

func (h *ChapterHandler) ListChapters(c *gin.Context) {
	var query dto.ChapterQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.catalogService.ListChapters(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *ChapterHandler) GetChapter(c *gin.Context) {
	chapter, err := h.catalogService.GetChapter(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", chapter)
}

func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateChapterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	chapter, err := h.catalogService.CreateChapter(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Chapter created", chapter)
}

func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateChapterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	chapter, err := h.catalogService.UpdateChapter(h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Chapter updated", chapter)
}

func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteChapter(h.GetDB(c), identity, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Chapter deleted", nil)
}

// --- Pages ---

func (h *ChapterHandler) GetPages(c *gin.Context) {
	result, err := h.catalogService.GetPagesByChapterID(h.GetDB(c), h.GetIdentity(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *ChapterHandler) GetPagesBySlug(c *gin.Context) {
	result, err := h.catalogService.GetPagesByChapterSlug(h.GetDB(c), h.GetIdentity(c), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *ChapterHandler) AddPages(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.AddPagesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pages, err := h.catalogService.AddPages(h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Pages added", pages)
}

// ReorderPages - все перестановки в одной транзакции; при ошибке порядок не меняется
func (h *ChapterHandler) ReorderPages(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.ReorderPagesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pages, err := h.catalogService.ReorderPages(h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Pages reordered", pages)
}

func (h *ChapterHandler) DeletePage(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeletePage(h.GetDB(c), identity, c.Param("id"), c.Param("pageId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Page deleted", nil)
}
