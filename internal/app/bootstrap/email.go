package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/trimstudio/booking/internal/config"
	"github.com/trimstudio/booking/internal/notify"
	"github.com/trimstudio/booking/pkg/logging"
)

// BuildEmailSender returns the sender for cfg.EmailProvider, or nil when the
// provider is not fully configured. sesClient is only used for "ses".
func BuildEmailSender(cfg *appconfig.Config, sesClient *sesv2.Client, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if problem := cfg.EmailProblem(); problem != "" {
		logger.Warn("confirmation email disabled", "provider", cfg.EmailProvider, "reason", problem)
		return nil
	}

	switch cfg.EmailProvider {
	case appconfig.EmailProviderSendGrid:
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	case appconfig.EmailProviderSES:
		if sesClient == nil {
			logger.Warn("confirmation email disabled", "provider", cfg.EmailProvider, "reason", "SES client not available")
			return nil
		}
		return notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	case appconfig.EmailProviderSMTP:
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	case appconfig.EmailProviderStub:
		return notify.NewStubEmailSender(logger)
	}
	return nil
}
