package mailer

import (
	"context"
	"fmt"

	"schedulecall/internal/config"
	"schedulecall/internal/domain"
	"schedulecall/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New returns the dispatch client selected by cfg.Provider.
func New(cfg config.EmailConfig, logger *zerolog.Logger) (domain.Dispatcher, error) {
	switch cfg.Provider {
	case config.ProviderResend, "":
		client, err := NewResendClient(cfg.Resend.APIKey, cfg.Resend.BaseURL, cfg.DispatchTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderSMTP:
		return NewSMTPClient(cfg.SMTP), nil
	case config.ProviderLog:
		return NewLogClient(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// LogClient only logs what would have been sent. Useful for local runs.
type LogClient struct {
	logger *zerolog.Logger
}

func NewLogClient(logger *zerolog.Logger) *LogClient {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &LogClient{logger: logger}
}

func (c *LogClient) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := "log-" + uuid.NewString()
	c.logger.Info().
		Str("message_id", id).
		Str("from", msg.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("email not sent (log provider)")
	return id, nil
}
