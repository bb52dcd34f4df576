package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/services/dto"
	"kandu_backend/internal/storage"
	"kandu_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// UploadService принимает файл и кладёт его в storage.
// Записи в БД нет: клиент сохраняет полученный URL в профиль или сообщение.
type UploadService interface {
	Upload(ctx context.Context, caller auth.Caller, usage string, file *multipart.FileHeader) (*dto.UploadResponse, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// UploadConfig - ограничения на загрузку.
// Usages: назначение файла -> допустимые MIME-типы.
type UploadConfig struct {
	MaxFileSize int64
	Usages      map[string][]string
}

type uploadService struct {
	storage storage.Storage
	config  UploadConfig
}

func NewUploadService(storage storage.Storage, config UploadConfig) UploadService {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 10 * 1024 * 1024
	}
	return &uploadService{storage: storage, config: config}
}

func (s *uploadService) Upload(ctx context.Context, caller auth.Caller, usage string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	allowed, ok := s.config.Usages[usage]
	if !ok {
		return nil, apperrors.ErrInvalidUploadUsage
	}
	if file == nil {
		return nil, apperrors.ValidationError(map[string]string{"file": "file is required"})
	}
	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("open uploaded file: %w", err))
	}
	defer src.Close()

	// Content-Type от клиента не доверяем, тип определяется по содержимому
	content, err := io.ReadAll(io.LimitReader(src, s.config.MaxFileSize+1))
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("read uploaded file: %w", err))
	}
	if int64(len(content)) > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	mt := mimetype.Detect(content)
	contentType := baseMIME(mt.String())
	if !mimeAllowed(mt, allowed) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(contentType)
	}

	key := path.Join(usage, caller.UserID, uuid.NewString()+mt.Extension())
	if err := s.storage.Save(ctx, key, bytes.NewReader(content), contentType); err != nil {
		logger.CtxWithError(ctx, "failed to save upload", err, "key", key)
		return nil, apperrors.InternalError(err)
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "file uploaded", "key", key, "usage", usage, "size", len(content))
	return &dto.UploadResponse{
		URL:         url,
		Key:         key,
		Usage:       usage,
		ContentType: contentType,
		Size:        int64(len(content)),
	}, nil
}

// Open отдаёт файл из storage вместе с его MIME-типом
func (s *uploadService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" {
		return nil, "", apperrors.ErrFileNotFound
	}
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	if !exists {
		return nil, "", apperrors.ErrFileNotFound
	}
	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	contentType := "application/octet-stream"
	if ct := mimeByExtension(path.Ext(key)); ct != "" {
		contentType = ct
	}
	return rc, contentType, nil
}

func mimeAllowed(mt *mimetype.MIME, allowed []string) bool {
	for _, a := range allowed {
		if mt.Is(a) {
			return true
		}
	}
	return false
}

// baseMIME отрезает параметры вида "; charset=utf-8"
func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

var extensionMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".pdf":  "application/pdf",
}

func mimeByExtension(ext string) string {
	return extensionMIME[strings.ToLower(ext)]
}
