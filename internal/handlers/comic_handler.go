package handlers

import (
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ComicHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewComicHandler(base *BaseHandler, catalogService services.CatalogService) *ComicHandler {
	return &ComicHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

func (h *ComicHandler) RegisterRoutes(rg *gin.RouterGroup, g *middleware.Guards) {
	comics := rg.Group("/comics")
	{
		comics.GET("", h.ListComics)
		comics.GET("/:id", h.GetComic)
		comics.POST("", g.Auth, h.CreateComic)
	}
}

func (h *ComicHandler) CreateComic(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateComicRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comic, err := h.catalogService.CreateComic(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Comic created", comic)
}

func (h *ComicHandler) GetComic(c *gin.Context) {
	comic, err := h.catalogService.GetComic(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", comic)
}

func (h *ComicHandler) ListComics(c *gin.Context) {
	var query dto.PageQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.catalogService.ListComics(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}
