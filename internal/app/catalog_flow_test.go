package app_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"comicweb_backend/internal/app"
	"comicweb_backend/internal/config"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pagesResponse struct {
	Pages []struct {
		ID        string `json:"id"`
		PageOrder int    `json:"pageOrder"`
		ImageURL  string `json:"imageUrl"`
	} `json:"pages"`
}

func TestCatalog_ReorderPages(t *testing.T) {
	ts := NewTestServer(t)
	ownerToken, _ := ts.Login(t, models.UserRoleUser)
	strangerToken, _ := ts.Login(t, models.UserRoleUser)

	chapterID := createChapter(t, ts, ownerToken, 0)
	pagesPath := "/api/chapters/" + chapterID + "/pages"

	// бесплатная глава читается анонимно
	status, env := ts.SendRequest(t, http.MethodGet, pagesPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	var before pagesResponse
	decode(t, env, &before)
	require.Len(t, before.Pages, 3)

	first, third := before.Pages[0], before.Pages[2]
	swap := map[string]interface{}{
		"pages": []map[string]interface{}{
			{"pageId": first.ID, "pageOrder": 3},
			{"pageId": third.ID, "pageOrder": 1},
		},
	}

	status, _ = ts.SendRequest(t, http.MethodPut, pagesPath+"/reorder", strangerToken, swap)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.SendRequest(t, http.MethodPut, pagesPath+"/reorder", ownerToken, swap)
	require.Equal(t, http.StatusOK, status)

	status, env = ts.SendRequest(t, http.MethodGet, pagesPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	var after pagesResponse
	decode(t, env, &after)
	require.Len(t, after.Pages, 3)
	assert.Equal(t, third.ID, after.Pages[0].ID)
	assert.Equal(t, first.ID, after.Pages[2].ID)

	// коллизия с нетронутой страницей: ничего не меняется
	status, _ = ts.SendRequest(t, http.MethodPut, pagesPath+"/reorder", ownerToken, map[string]interface{}{
		"pages": []map[string]interface{}{{"pageId": third.ID, "pageOrder": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = ts.SendRequest(t, http.MethodGet, pagesPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	var unchanged pagesResponse
	decode(t, env, &unchanged)
	assert.Equal(t, after, unchanged)

	status, _ = ts.SendRequest(t, http.MethodDelete, pagesPath+"/"+after.Pages[1].ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/chapters/"+chapterID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var chapter struct {
		Slug      string `json:"slug"`
		PageCount int    `json:"pageCount"`
	}
	decode(t, env, &chapter)
	assert.Equal(t, 2, chapter.PageCount)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/chapters/slug/"+chapter.Slug+"/pages", "", nil)
	require.Equal(t, http.StatusOK, status)
	var bySlug pagesResponse
	decode(t, env, &bySlug)
	assert.Len(t, bySlug.Pages, 2)
}

func TestCatalog_PublicListingAndNotFound(t *testing.T) {
	ts := NewTestServer(t)
	token, _ := ts.Login(t, models.UserRoleUser)
	createChapter(t, ts, token, 10)

	status, env := ts.SendRequest(t, http.MethodGet, "/api/comics", "", nil)
	require.Equal(t, http.StatusOK, status)
	var comics pagedIDs
	decode(t, env, &comics)
	assert.Equal(t, int64(1), comics.Total)
	assert.Equal(t, 20, comics.PageSize)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/chapters?comicId="+comics.Items[0].ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var chapters pagedIDs
	decode(t, env, &chapters)
	assert.Equal(t, int64(1), chapters.Total)

	status, _ = ts.SendRequest(t, http.MethodGet, "/api/chapters/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.SendRequest(t, http.MethodPost, "/api/comics", "", map[string]string{"title": "x", "slug": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestUpload(t *testing.T) {
	ts := NewTestServer(t)
	token, user := ts.Login(t, models.UserRoleUser)

	upload := func(filename string, content []byte) (int, envelope) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/uploads", &body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		return ts.do(t, req)
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	status, env := upload("cover.png", png)
	require.Equal(t, http.StatusCreated, status, message(env))
	var uploaded struct {
		URL      string `json:"url"`
		MimeType string `json:"mimeType"`
	}
	decode(t, env, &uploaded)
	assert.Equal(t, "image/png", uploaded.MimeType)
	require.True(t, strings.HasPrefix(uploaded.URL, "/uploads/"+user.ID+"/"), uploaded.URL)

	// файл раздается статикой
	res, err := ts.Server.Client().Get(ts.Server.URL + uploaded.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	served, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, png, served)

	status, _ = upload("notes.txt", []byte("just some text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, status)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := NewTestServer(t)

	status, env := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var health struct {
		Status   string `json:"status"`
		Database bool   `json:"database"`
	}
	decode(t, env, &health)
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.Database)

	res, err := ts.Server.Client().Get(ts.Server.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(raw), "comicweb_http_requests_total")
}

func TestSeedAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := config.Default()
	cfg.Admin.Email = "Root@Comicweb.Test"
	cfg.Admin.Password = "root-password"

	require.NoError(t, app.SeedAdmin(db, cfg))
	require.NoError(t, app.SeedAdmin(db, cfg))

	var admins []models.User
	require.NoError(t, db.Where("email = ?", "root@comicweb.test").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, models.UserRoleAdmin, admins[0].Role)
	assert.True(t, admins[0].EmailVerified)

	// существующий пользователь повышается до admin
	user := testutil.CreateUser(t, db, testutil.UniqueEmail("promote"), models.UserRoleUser)
	cfg.Admin.Email = user.Email
	require.NoError(t, app.SeedAdmin(db, cfg))

	var promoted models.User
	require.NoError(t, db.First(&promoted, "id = ?", user.ID).Error)
	assert.Equal(t, models.UserRoleAdmin, promoted.Role)

	cfg.Admin.Password = ""
	assert.NoError(t, app.SeedAdmin(db, cfg))
}
