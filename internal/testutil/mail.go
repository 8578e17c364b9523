package testutil

import (
	"regexp"
	"testing"

	"comicweb_backend/internal/email"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// LastCode достает последний отправленный на адрес одноразовый код
func LastCode(t *testing.T, provider *email.MemoryProvider, to string) string {
	t.Helper()
	msg, ok := provider.Last(to)
	if !ok {
		t.Fatalf("Письмо на %s не отправлено", to)
	}
	code := codePattern.FindString(msg.Body)
	if code == "" {
		t.Fatalf("В письме на %s нет кода: %q", to, msg.Body)
	}
	return code
}
