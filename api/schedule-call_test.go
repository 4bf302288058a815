package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_MissingConfig(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("EMAIL_PROVIDER", "")

	h := build()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule-call", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schedule-call", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_LogProvider(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "owner@example.com")
	t.Setenv("EMAIL_PROVIDER", "log")
	t.Setenv("LOG_LEVEL", "disabled")

	rec := httptest.NewRecorder()
	body := `{"name":"A","email":"a@x.com","date":"2024-05-01","time":"10:00","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedule-call", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	Handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
