package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"schedulecall/internal/models"
)

var (
	ErrValidation = errors.New("schedule call: validation failed")
	ErrMethod     = errors.New("schedule call: method not allowed")
	ErrServer     = errors.New("schedule call: server error")
)

// Client submits bookings to a running schedule-call endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a client for baseURL, e.g. http://localhost:5000.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Schedule posts req to /api/schedule-call. A nil error means both emails went out.
func (c *Client) Schedule(ctx context.Context, req models.BookingRequest) error {
	const op = "client.Schedule"

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/schedule-call", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var body response
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusOK && body.Success:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrValidation, body.Error)
	case resp.StatusCode == http.StatusMethodNotAllowed:
		return fmt.Errorf("%w: %s", ErrMethod, body.Error)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrServer, resp.StatusCode, body.Error)
	}
}
