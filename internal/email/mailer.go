package email

import (
	"context"
	"fmt"
	"time"
)

// Mailer доставляет одноразовые коды пользователю
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string, ttl time.Duration) error
	SendPasswordResetCode(ctx context.Context, to, name, code string, ttl time.Duration) error
}

// CodeMailer рендерит шаблон и отправляет через Provider
type CodeMailer struct {
	provider Provider
	renderer TemplateRenderer
	from     string
}

func NewCodeMailer(provider Provider, renderer TemplateRenderer, from string) *CodeMailer {
	return &CodeMailer{provider: provider, renderer: renderer, from: from}
}

func (m *CodeMailer) SendVerificationCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	return m.send(ctx, to, "Confirm your email", TemplateVerificationCode,
		fmt.Sprintf("Your email verification code: %s", code), name, code, ttl)
}

func (m *CodeMailer) SendPasswordResetCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	return m.send(ctx, to, "Password reset code", TemplatePasswordReset,
		fmt.Sprintf("Your password reset code: %s", code), name, code, ttl)
}

func (m *CodeMailer) send(ctx context.Context, to, subject, tpl, text, name, code string, ttl time.Duration) error {
	html, err := m.renderer.Render(tpl, TemplateData{
		"Name":      name,
		"Code":      code,
		"ExpiresIn": humanDuration(ttl),
	})
	if err != nil {
		return err
	}

	return m.provider.Send(ctx, &Email{
		From:     m.from,
		To:       []string{to},
		Subject:  subject,
		Body:     text,
		HTMLBody: html,
	})
}

func humanDuration(d time.Duration) string {
	if h := int(d.Hours()); h >= 1 && d%time.Hour == 0 {
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}
