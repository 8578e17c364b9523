package handlers

import (
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// CurrencyHandler - баланс и история внутренней валюты
type CurrencyHandler struct {
	*BaseHandler
	ledgerService services.LedgerService
}

func NewCurrencyHandler(base *BaseHandler, ledgerService services.LedgerService) *CurrencyHandler {
	return &CurrencyHandler{
		BaseHandler:   base,
		ledgerService: ledgerService,
	}
}

func (h *CurrencyHandler) RegisterRoutes(rg *gin.RouterGroup, g *middleware.Guards) {
	currency := rg.Group("/currency")
	currency.Use(g.Auth)
	{
		currency.GET("/balance", h.GetBalance)
		currency.GET("/history", h.GetHistory)
		currency.POST("", g.Admin, h.CreateEntry)
	}
}

func (h *CurrencyHandler) GetBalance(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	balance, err := h.ledgerService.Balance(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", balance)
}

func (h *CurrencyHandler) GetHistory(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.ledgerService.History(h.GetDB(c), identity, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

// CreateEntry - ручное начисление/списание администратором
func (h *CurrencyHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateLedgerEntryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	entry, err := h.ledgerService.CreateEntry(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Ledger entry created", entry)
}
