package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendTemplate отправляет email по шаблону
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	// Validate проверяет конфигурацию провайдера
	Validate() error

	// Close закрывает соединение с провайдером
	Close() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}

// NopProvider ничего не отправляет. Используется, когда SMTP не настроен.
type NopProvider struct{}

func (NopProvider) Send(*Email) error                                         { return nil }
func (NopProvider) SendTemplate([]string, string, string, TemplateData) error { return nil }
func (NopProvider) Validate() error                                           { return nil }
func (NopProvider) Close() error                                              { return nil }
