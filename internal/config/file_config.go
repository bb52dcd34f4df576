package config

// Назначения загружаемых файлов и допустимые для них MIME-типы.
// Общий лимит Upload.AllowedTypes применяется дополнительно.
var UploadUsages = map[string][]string{
	"avatar":          imageTypes,
	"portfolio":       imageTypes,
	"document":        append(append([]string{}, imageTypes...), "application/pdf"),
	"chat_attachment": append(append([]string{}, imageTypes...), "application/pdf"),
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/heic"}

// UploadUsageTypes - UploadUsages, урезанные до Upload.AllowedTypes
func (c *Config) UploadUsageTypes() map[string][]string {
	allowed := make(map[string]bool, len(c.Upload.AllowedTypes))
	for _, t := range c.Upload.AllowedTypes {
		allowed[t] = true
	}

	usages := make(map[string][]string, len(UploadUsages))
	for usage, types := range UploadUsages {
		for _, t := range types {
			if allowed[t] {
				usages[usage] = append(usages[usage], t)
			}
		}
	}
	return usages
}
