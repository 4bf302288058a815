package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"schedulecall/internal/booking"
	"schedulecall/internal/config"
	"schedulecall/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminAddress = "owner@example.com"
	validBody    = `{"name":"A","email":"a@x.com","date":"2024-05-01","time":"10:00","message":"hi"}`
)

// recordingDispatcher remembers every message and fails the calls listed in failOn (1-based).
type recordingDispatcher struct {
	mu     sync.Mutex
	sent   []models.EmailMessage
	failOn map[int]bool
}

func (d *recordingDispatcher) Send(_ context.Context, msg models.EmailMessage) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msg)
	if d.failOn[len(d.sent)] {
		return "", errors.New("provider unavailable")
	}
	return "msg", nil
}

func (d *recordingDispatcher) messages() []models.EmailMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.EmailMessage(nil), d.sent...)
}

func newTestServer(t *testing.T, d *recordingDispatcher) *httptest.Server {
	t.Helper()
	logger := zerolog.New(io.Discard)
	composer := booking.NewComposer(config.DefaultAdminSender, config.DefaultUserSender, config.DefaultOwnerName)
	handler := booking.NewHandler(d, composer, adminAddress, time.Second, nil, &logger)

	srv := NewHTTPServer(config.HTTPConfig{Port: 0, CORSOrigin: "*"}, handler, &logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (int, string, http.Header) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, strings.TrimSpace(string(raw)), resp.Header
}

func TestScheduleCall_Success(t *testing.T) {
	d := &recordingDispatcher{}
	ts := newTestServer(t, d)

	status, body, _ := do(t, http.MethodPost, ts.URL+"/api/schedule-call", validBody)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success":true}`, body)

	sent := d.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, adminAddress, sent[0].To)
	assert.Equal(t, booking.AdminSubject, sent[0].Subject)
	assert.Equal(t, "a@x.com", sent[1].To)
	assert.Equal(t, booking.UserSubject, sent[1].Subject)
}

func TestScheduleCall_MissingField(t *testing.T) {
	d := &recordingDispatcher{}
	ts := newTestServer(t, d)

	status, body, _ := do(t, http.MethodPost, ts.URL+"/api/schedule-call",
		`{"name":"A","email":"a@x.com","date":"2024-05-01","time":"10:00"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"All fields are required"}`, body)
	assert.Empty(t, d.messages())
}

func TestScheduleCall_AdminDispatchFails(t *testing.T) {
	d := &recordingDispatcher{failOn: map[int]bool{1: true}}
	ts := newTestServer(t, d)

	status, body, _ := do(t, http.MethodPost, ts.URL+"/api/schedule-call", validBody)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, body)
	assert.Len(t, d.messages(), 1)
}

func TestScheduleCall_UserDispatchFails(t *testing.T) {
	d := &recordingDispatcher{failOn: map[int]bool{2: true}}
	ts := newTestServer(t, d)

	status, body, _ := do(t, http.MethodPost, ts.URL+"/api/schedule-call", validBody)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, body)
	assert.Len(t, d.messages(), 2)
}

// slowAdminDispatcher stalls the admin leg and records the context state of
// every send once the stall is over.
type slowAdminDispatcher struct {
	delay   time.Duration
	mu      sync.Mutex
	ctxErrs []error
	done    chan struct{}
}

func (d *slowAdminDispatcher) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	if msg.To == adminAddress {
		time.Sleep(d.delay)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	if len(d.ctxErrs) == 2 {
		close(d.done)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "msg", nil
}

func TestScheduleCall_ClientDisconnectStillSendsBoth(t *testing.T) {
	d := &slowAdminDispatcher{delay: 300 * time.Millisecond, done: make(chan struct{})}

	logger := zerolog.New(io.Discard)
	composer := booking.NewComposer(config.DefaultAdminSender, config.DefaultUserSender, config.DefaultOwnerName)
	handler := booking.NewHandler(d, composer, adminAddress, 5*time.Second, nil, &logger)
	ts := httptest.NewServer(NewHTTPServer(config.HTTPConfig{CORSOrigin: "*"}, handler, &logger).Handler())
	t.Cleanup(ts.Close)

	impatient := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := impatient.Post(ts.URL+"/api/schedule-call", "application/json", strings.NewReader(validBody))
	require.Error(t, err)

	select {
	case <-d.done:
	case <-time.After(3 * time.Second):
		t.Fatal("user confirmation was never attempted")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, []error{nil, nil}, d.ctxErrs)
}

func TestScheduleCall_MethodNotAllowed(t *testing.T) {
	d := &recordingDispatcher{}
	ts := newTestServer(t, d)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		status, body, _ := do(t, method, ts.URL+"/api/schedule-call", "")
		assert.Equal(t, http.StatusMethodNotAllowed, status, method)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, body, method)
	}
	assert.Empty(t, d.messages())
}

func TestScheduleCall_BothRoutes(t *testing.T) {
	d := &recordingDispatcher{}
	ts := newTestServer(t, d)

	status, _, _ := do(t, http.MethodPost, ts.URL+"/schedule-call", validBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, d.messages(), 2)
}

func TestScheduleCall_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "broken json", body: `{"name":`},
		{name: "array", body: `["A"]`},
		{name: "null", body: `null`},
		{name: "trailing garbage", body: validBody + "garbage"},
		{name: "falsy values", body: `{"name":0,"email":false,"date":null,"time":"","message":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			ts := newTestServer(t, d)

			status, body, _ := do(t, http.MethodPost, ts.URL+"/api/schedule-call", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.JSONEq(t, `{"error":"All fields are required"}`, body)
			assert.Empty(t, d.messages())
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	d := &recordingDispatcher{}
	ts := newTestServer(t, d)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/schedule-call", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portfolio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.GreaterOrEqual(t, resp.StatusCode, 200)
	assert.Less(t, resp.StatusCode, 300)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Empty(t, d.messages())
}

func TestCORSActualRequest(t *testing.T) {
	ts := newTestServer(t, &recordingDispatcher{})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/schedule-call", strings.NewReader(validBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://portfolio.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &recordingDispatcher{})

	status, body, _ := do(t, http.MethodGet, ts.URL+"/healthz", "")

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, &recordingDispatcher{})

	status, body, _ := do(t, http.MethodGet, ts.URL+"/nope", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"not found"}`, body)
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := NewHTTPServer(config.HTTPConfig{Port: 0}, nil, nil)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
