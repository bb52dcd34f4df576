// Package storage хранит загруженные файлы: на диске сервера или в бакете S3/R2.
// Ключ объекта имеет вид <usage>/<user_id>/<uuid>.<ext>, публичный URL строится из ключа.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("storage: object not found")
	ErrInvalidPath = errors.New("storage: invalid path")
)

type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Get - ErrNotFound, если объекта нет
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete отсутствующего объекта не ошибка
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL - публичный URL объекта
	GetURL(ctx context.Context, key string) (string, error)
	// KeyFromURL - обратное к GetURL. false, если URL выдан не этим хранилищем.
	KeyFromURL(url string) (string, bool)
}

// Config - секция storage конфига
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // каталог для local
	BaseURL    string // префикс публичных URL
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // R2, MinIO
	UseSSL     bool
	PublicRead bool // ACL public-read на загружаемых объектах (не для R2)
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// keyUnderPrefix отрезает prefix и отбрасывает ключи с выходом наверх
func keyUnderPrefix(url, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" || path.Clean("/"+key) != "/"+key {
		return "", false
	}
	return key, true
}
