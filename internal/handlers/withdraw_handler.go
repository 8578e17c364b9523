package handlers

import (
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type WithdrawHandler struct {
	*BaseHandler
	withdrawService services.WithdrawService
}

func NewWithdrawHandler(base *BaseHandler, withdrawService services.WithdrawService) *WithdrawHandler {
	return &WithdrawHandler{
		BaseHandler:     base,
		withdrawService: withdrawService,
	}
}

func (h *WithdrawHandler) RegisterRoutes(rg *gin.RouterGroup, g *middleware.Guards) {
	withdraws := rg.Group("/withdraws")
	withdraws.Use(g.Auth)
	{
		withdraws.POST("", h.Create)
		withdraws.GET("/me", h.ListMine)
	}

	admin := rg.Group("/withdraws")
	admin.Use(g.Auth, g.Admin)
	{
		admin.GET("/admin", h.AdminList)
		admin.PUT("/:id", h.UpdateStatus)
	}
}

func (h *WithdrawHandler) Create(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateWithdrawRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	withdraw, err := h.withdrawService.Create(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Withdraw request created", withdraw)
}

func (h *WithdrawHandler) ListMine(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.withdrawService.ListMine(h.GetDB(c), identity, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *WithdrawHandler) AdminList(c *gin.Context) {
	var query dto.WithdrawQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.withdrawService.AdminList(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *WithdrawHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateWithdrawRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	withdraw, err := h.withdrawService.UpdateStatus(h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Withdraw request updated", withdraw)
}
