package email

import "context"

// Provider - транспорт доставки писем. SMTP в проде, лог или память в dev/тестах.
type Provider interface {
	Send(ctx context.Context, email *Email) error
	// Validate вызывается один раз при старте
	Validate() error
}

type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
