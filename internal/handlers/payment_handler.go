package handlers

import (
	"comicweb_backend/internal/middleware"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup, g *middleware.Guards) {
	payments := rg.Group("/payments")
	payments.Use(g.Auth)
	{
		payments.POST("/purchased-chapter", h.PurchaseChapter)
		payments.GET("/transactions", h.ListTransactions)
		payments.GET("/transactions/check/:id", h.CheckTransaction)
	}

	admin := rg.Group("/payments")
	admin.Use(g.Auth, g.Admin)
	{
		admin.PUT("/accept-manual/:id", h.AcceptManual)
	}
}

// PurchaseChapter идемпотентна: повторная покупка возвращает alreadyOwned=true
func (h *PaymentHandler) PurchaseChapter(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.PurchaseChapterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.paymentService.PurchaseChapter(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Chapter purchased"
	if resp.AlreadyOwned {
		message = "Chapter already purchased"
	}
	h.OK(c, message, resp)
}

func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var query dto.TransactionQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.paymentService.ListTransactions(h.GetDB(c), identity, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *PaymentHandler) CheckTransaction(c *gin.Context) {
	identity, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	tx, err := h.paymentService.CheckTransaction(h.GetDB(c), identity, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", tx)
}

func (h *PaymentHandler) AcceptManual(c *gin.Context) {
	tx, err := h.paymentService.AcceptManual(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Transaction accepted", tx)
}
