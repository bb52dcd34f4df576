package dto

// UploadResponse - публичный URL загруженного файла
type UploadResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Usage       string `json:"usage"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
