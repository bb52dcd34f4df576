package app

import (
	"kandu_backend/internal/config"
	"kandu_backend/internal/email"
	"kandu_backend/internal/logger"
)

// logEmailProvider пишет письма в лог вместо отправки. Для разработки без SMTP.
type logEmailProvider struct {
	email.NopProvider
}

func (logEmailProvider) Send(e *email.Email) error {
	logger.Info("email (not sent)", "to", e.To, "subject", e.Subject)
	return nil
}

func (logEmailProvider) SendTemplate(to []string, subject string, templateName string, _ email.TemplateData) error {
	logger.Info("email (not sent)", "to", to, "subject", subject, "template", templateName)
	return nil
}

// newEmailProvider - SMTP, если включён в конфиге, иначе заглушка
func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	if !cfg.Email.Enabled {
		if cfg.IsDevelopment() {
			logger.Warn("Email disabled, messages will be logged only")
			return logEmailProvider{}, nil
		}
		return email.NopProvider{}, nil
	}

	renderer, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, err
	}
	provider := email.NewSMTPProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUser,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, renderer)
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	logger.Info("SMTP email provider configured", "host", cfg.Email.SMTPHost)
	return provider, nil
}
