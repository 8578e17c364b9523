package app_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"comicweb_backend/internal/models"
	"comicweb_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"user"`
}

func TestAuthFlow_RegisterVerifyMe(t *testing.T) {
	ts := NewTestServer(t)
	emailAddr := testutil.UniqueEmail("flow")

	status, env := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Flow Reader",
		"email":    emailAddr,
		"password": "flow-password",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)

	var reg tokenPair
	decode(t, env, &reg)
	assert.False(t, reg.User.EmailVerified)

	code := testutil.LastCode(t, ts.Mail, emailAddr)
	assert.NotContains(t, string(env.Data), code)

	status, env = ts.SendRequest(t, http.MethodPost, "/api/auth/verify", "", map[string]string{
		"email": emailAddr,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, status)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/auth/me", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	}
	decode(t, env, &me)
	assert.Equal(t, emailAddr, me.Email)
	assert.True(t, me.EmailVerified)
}

func TestAuth_ProtectedRouteWithoutToken(t *testing.T) {
	ts := NewTestServer(t)

	for _, path := range []string{"/api/auth/me", "/api/currency/balance", "/api/withdraws/me"} {
		status, env := ts.SendRequest(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.False(t, env.Success)
		assert.Equal(t, "Access denied", message(env))
	}

	status, _ := ts.SendRequest(t, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_ValidationErrorEnvelope(t *testing.T) {
	ts := NewTestServer(t)

	status, env := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Bad",
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", message(env))

	var fields map[string]string
	decode(t, env, &fields)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestAuth_RegisterMultibytePasswordOverLimit(t *testing.T) {
	ts := NewTestServer(t)

	status, env := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Cyrillic",
		"email":    strings.ToLower(testutil.UniqueEmail("bytes")),
		"password": strings.Repeat("пароль", 10),
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", message(env))

	var fields map[string]string
	decode(t, env, &fields)
	assert.Equal(t, "Must be at most 72 bytes long", fields["password"])
}

func TestAuth_RefreshRotationAndLogout(t *testing.T) {
	ts := NewTestServer(t)
	user := testutil.CreateUser(t, ts.DB, testutil.UniqueEmail("rotate"), models.UserRoleUser)

	status, env := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": testutil.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, status)
	var first tokenPair
	decode(t, env, &first)

	status, env = ts.SendRequest(t, http.MethodPost, "/api/auth/refetchToken", "", map[string]string{"refreshToken": first.RefreshToken})
	require.Equal(t, http.StatusOK, status)
	var second tokenPair
	decode(t, env, &second)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// старый refresh уже погашен
	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/refetchToken", "", map[string]string{"refreshToken": first.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/logout", second.AccessToken, map[string]string{"refreshToken": second.RefreshToken})
	assert.Equal(t, http.StatusOK, status)
	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/logout", second.AccessToken, map[string]string{"refreshToken": second.RefreshToken})
	assert.Equal(t, http.StatusOK, status)

	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/refetchToken", "", map[string]string{"refreshToken": second.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_ForgotAndResetPassword(t *testing.T) {
	ts := NewTestServer(t)
	user := testutil.CreateUser(t, ts.DB, testutil.UniqueEmail("forgot"), models.UserRoleUser)

	// неизвестный email неотличим от известного
	status, unknown := ts.SendRequest(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "ghost@test.com"})
	require.Equal(t, http.StatusOK, status)
	status, known := ts.SendRequest(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": user.Email})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, message(unknown), message(known))

	code := testutil.LastCode(t, ts.Mail, user.Email)
	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"email":       user.Email,
		"code":        code,
		"newPassword": "reset-password-1",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "reset-password-1",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestAuth_ResendConfirmUnknownEmail(t *testing.T) {
	ts := NewTestServer(t)

	status, env := ts.SendRequest(t, http.MethodPost, "/api/auth/resend-confirm", "", map[string]string{"email": "nobody@test.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
}

func TestAuth_GoogleAndUpdatePassword(t *testing.T) {
	ts := NewTestServer(t)
	emailAddr := testutil.UniqueEmail("google")

	status, env := ts.SendRequest(t, http.MethodPost, "/api/auth/google", "", map[string]string{
		"email":    emailAddr,
		"fullName": "Google Reader",
	})
	require.Equal(t, http.StatusOK, status)
	var social tokenPair
	decode(t, env, &social)
	assert.True(t, social.User.EmailVerified)

	// у социального аккаунта нет пароля
	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/update-password", social.AccessToken, map[string]string{
		"currentPassword": "whatever",
		"newPassword":     "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	token, user := ts.Login(t, models.UserRoleUser)
	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/update-password", token, map[string]string{
		"currentPassword": testutil.DefaultPassword,
		"newPassword":     "updated-password",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "updated-password",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestAuth_LoginRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 2
	ts := NewTestServerWithConfig(t, cfg)

	body := map[string]string{"email": "nobody@test.com", "password": "whatever"}
	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		status, _ := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", body)
		statuses = append(statuses, status)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, statuses)

	// регистрация не ограничена
	status, _ := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Not Limited",
		"email":    strings.ToLower(testutil.UniqueEmail("limit")),
		"password": "password-1",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestAuth_CodeRoutesRateLimited(t *testing.T) {
	for _, path := range []string{"/api/auth/verify", "/api/auth/reset-password"} {
		t.Run(path, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.RateLimit.RequestsPerSecond = 0.001
			cfg.RateLimit.Burst = 2
			ts := NewTestServerWithConfig(t, cfg)
			user := testutil.CreateUser(t, ts.DB, testutil.UniqueEmail("guess"), models.UserRoleUser)

			counts := map[int]int{}
			for i := 0; i < 10; i++ {
				status, _ := ts.SendRequest(t, http.MethodPost, path, "", map[string]string{
					"email":       user.Email,
					"code":        fmt.Sprintf("%06d", 100000+i),
					"newPassword": "brand-new-password",
				})
				counts[status]++
			}
			assert.Equal(t, map[int]int{http.StatusBadRequest: 2, http.StatusTooManyRequests: 8}, counts)
		})
	}
}
