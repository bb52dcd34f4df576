package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kandu_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T, baseURL string) (*storage.LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(storage.Config{BasePath: dir, BaseURL: baseURL})
	require.NoError(t, err)
	return s, dir
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocal(t, "")

	require.NoError(t, s.Save(ctx, "avatar/u1/a.png", strings.NewReader("png-bytes"), "image/png"))
	assert.FileExists(t, filepath.Join(dir, "avatar", "u1", "a.png"))

	exists, err := s.Exists(ctx, "avatar/u1/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Get(ctx, "avatar/u1/a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, "avatar/u1/a.png"))
	exists, err = s.Exists(ctx, "avatar/u1/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "avatar/u1/a.png"))
}

func TestLocalStorage_NotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocal(t, "")

	_, err := s.Get(ctx, "missing.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocal(t, "")

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), "text/plain"))
	assert.FileExists(t, filepath.Join(dir, "escape.txt"))
	_, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	_, err = s.Get(ctx, "/")
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
}

func TestLocalStorage_URLs(t *testing.T) {
	ctx := context.Background()

	s, _ := newLocal(t, "")
	url, err := s.GetURL(ctx, "portfolio/u1/p.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/files/portfolio/u1/p.jpg", url)
	key, ok := s.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "portfolio/u1/p.jpg", key)

	s, _ = newLocal(t, "https://cdn.kandu.test/files/")
	url, err = s.GetURL(ctx, "portfolio/u1/p.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.kandu.test/files/portfolio/u1/p.jpg", url)
	key, ok = s.KeyFromURL(url + "?v=2")
	assert.True(t, ok)
	assert.Equal(t, "portfolio/u1/p.jpg", key)
}

func TestLocalStorage_KeyFromForeignURL(t *testing.T) {
	s, _ := newLocal(t, "/files")

	for _, url := range []string{
		"https://elsewhere.test/files/portfolio/u1/p.jpg",
		"/files/",
		"/files/../config.yaml",
		"/files/portfolio//p.jpg",
		"portfolio/u1/p.jpg",
	} {
		_, ok := s.KeyFromURL(url)
		assert.False(t, ok, url)
	}
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := storage.NewStorage(storage.Config{Type: "ftp"})
	assert.Error(t, err)
}
