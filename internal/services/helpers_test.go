package services_test

import (
	"testing"
	"time"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/email"
	"comicweb_backend/internal/services"
	"comicweb_backend/internal/storage"
	"comicweb_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	db   *gorm.DB
	svc  *services.ServiceContainer
	mail *email.MemoryProvider
	jwt  *auth.JWTManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	mail := email.NewMemoryProvider()
	templates, err := email.NewTemplateManager()
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	jwt := auth.NewJWTManager("test-secret-test-secret-test-secret", "comicweb", "comicweb-clients", 15*time.Minute)
	svc := services.NewServiceContainer(services.Dependencies{
		JWT:     jwt,
		Mailer:  email.NewCodeMailer(mail, templates, "noreply@test.com"),
		Storage: store,
		TTLs: services.AuthTTLs{
			RefreshToken:     7 * 24 * time.Hour,
			VerificationCode: 24 * time.Hour,
			ResetCode:        2 * time.Hour,
		},
		Upload: services.UploadConfig{
			MaxFileSize:  1024 * 1024,
			AllowedTypes: []string{"image/png", "image/jpeg"},
		},
	})

	return &harness{db: db, svc: svc, mail: mail, jwt: jwt}
}
