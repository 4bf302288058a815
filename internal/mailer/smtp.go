package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"schedulecall/internal/config"
	"schedulecall/internal/models"

	"github.com/google/uuid"
	"github.com/jordan-wright/email"
)

// SMTPClient sends HTML email over plain SMTP with PLAIN auth.
type SMTPClient struct {
	cfg config.SMTPConfig
}

func NewSMTPClient(cfg config.SMTPConfig) *SMTPClient {
	return &SMTPClient{cfg: cfg}
}

// Send blocks until the server accepts the message or ctx is done. The
// underlying library has no context support, so a send abandoned on
// timeout may still complete in the background.
func (c *SMTPClient) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	const op = "mailer.SMTPClient.Send"

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), c.cfg.Host)

	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)
	e.Headers.Set("Message-Id", messageID)

	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)

	done := make(chan error, 1)
	go func() {
		done <- e.Send(addr, auth)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	return messageID, nil
}
