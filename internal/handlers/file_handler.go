package handlers

import (
	"io"
	"net/http"
	"strings"

	"kandu_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// FileHandler отдаёт файлы локального хранилища по ключу
type FileHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewFileHandler(base *BaseHandler, uploadService services.UploadService) *FileHandler {
	return &FileHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

// RegisterRoutes вешается на корень: URL файлов имеют вид /files/<key>
func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/files/*path", h.ServeFile)
	r.HEAD("/files/*path", h.ServeFile)
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")

	reader, contentType, err := h.uploadService.Open(c.Request.Context(), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("Content-Disposition", "inline")
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment")
	}

	c.Status(http.StatusOK)
	if c.Request.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// заголовки уже отправлены
		_ = c.Error(err)
	}
}
