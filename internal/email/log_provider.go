package email

import (
	"context"
	"strings"
	"sync"

	"comicweb_backend/internal/logger"
)

// LogProvider используется, когда SMTP выключен. Пишет в лог только
// получателя и тему: тело письма содержит одноразовый код.
type LogProvider struct{}

func (LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "Email delivery skipped (smtp disabled)",
		"to", strings.Join(email.To, ","),
		"subject", email.Subject,
	)
	return nil
}

func (LogProvider) Validate() error { return nil }

// MemoryProvider складывает письма в память (тесты и локальная отладка)
type MemoryProvider struct {
	mu   sync.Mutex
	sent []Email
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

func (p *MemoryProvider) Send(_ context.Context, email *Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, *email)
	return nil
}

func (p *MemoryProvider) Validate() error { return nil }

// Sent возвращает копию отправленных писем
func (p *MemoryProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.sent))
	copy(out, p.sent)
	return out
}

// Last - последнее письмо на адрес
func (p *MemoryProvider) Last(to string) (Email, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.sent) - 1; i >= 0; i-- {
		for _, rcpt := range p.sent[i].To {
			if rcpt == to {
				return p.sent[i], true
			}
		}
	}
	return Email{}, false
}
