package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"schedulecall/internal/models"

	"github.com/resend/resend-go/v2"
)

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	client *resend.Client
}

// NewResendClient builds a client for apiKey. baseURL is optional and only
// needed to point at a non-default API host.
func NewResendClient(apiKey, baseURL string, timeout time.Duration) (*ResendClient, error) {
	const op = "mailer.NewResendClient"

	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is empty", op)
	}

	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%s: parse base url: %w", op, err)
		}
		client.BaseURL = u
	}

	return &ResendClient{client: client}, nil
}

func (c *ResendClient) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	const op = "mailer.ResendClient.Send"

	sent, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return sent.Id, nil
}
