package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/models"
	"kandu_backend/internal/storage"
	"kandu_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// fileHeader собирает multipart-форму и возвращает заголовок поля file
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/uploads", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func newTestUploadService(t *testing.T) UploadService {
	t.Helper()
	local, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	return NewUploadService(local, UploadConfig{
		MaxFileSize: 1024,
		Usages: map[string][]string{
			"avatar":   {"image/png", "image/jpeg"},
			"document": {"application/pdf"},
		},
	})
}

func TestUpload_SniffsContentAndStores(t *testing.T) {
	svc := newTestUploadService(t)
	ctx := context.Background()
	caller := auth.Caller{UserID: "user-1", UserType: models.UserTypeWorker}

	// имя файла врёт, тип берётся из содержимого
	res, err := svc.Upload(ctx, caller, "avatar", fileHeader(t, "me.pdf", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, strings.HasPrefix(res.Key, "avatar/user-1/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "/files/"+res.Key, res.URL)
	assert.Equal(t, int64(len(pngHeader)), res.Size)

	rc, contentType, err := svc.Open(ctx, res.Key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", contentType)
}

func TestUpload_Rejections(t *testing.T) {
	svc := newTestUploadService(t)
	ctx := context.Background()
	caller := auth.Caller{UserID: "user-1", UserType: models.UserTypeWorker}

	_, err := svc.Upload(ctx, caller, "avatar", fileHeader(t, "note.png", []byte("just some text")))
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)

	_, err = svc.Upload(ctx, caller, "selfie", fileHeader(t, "me.png", pngHeader))
	assert.ErrorIs(t, err, apperrors.ErrInvalidUploadUsage)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...)
	_, err = svc.Upload(ctx, caller, "avatar", fileHeader(t, "big.png", big))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, err = svc.Upload(ctx, auth.Caller{}, "avatar", fileHeader(t, "me.png", pngHeader))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestOpen_RejectsTraversalAndMissing(t *testing.T) {
	svc := newTestUploadService(t)
	ctx := context.Background()

	_, _, err := svc.Open(ctx, "avatar/nope.png")
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

	_, _, err = svc.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}
