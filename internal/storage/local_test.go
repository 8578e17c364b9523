package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/uploads/"})
	require.NoError(t, err)
	ctx := context.Background()

	n, err := s.Save(ctx, "u1/page.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)

	exists, err := s.Exists(ctx, "u1/page.png")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Open(ctx, "u1/page.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	assert.Equal(t, "/uploads/u1/page.png", s.URL("u1/page.png"))

	require.NoError(t, s.Delete(ctx, "u1/page.png"))
	exists, err = s.Exists(ctx, "u1/page.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)

	exists, err := s.Exists(context.Background(), "escape.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.Save(context.Background(), "/", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}
