package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	PaymentHandler  *PaymentHandler
	CurrencyHandler *CurrencyHandler
	WithdrawHandler *WithdrawHandler
	ComicHandler    *ComicHandler
	ChapterHandler  *ChapterHandler
	UploadHandler   *UploadHandler
	HealthHandler   *HealthHandler
}
