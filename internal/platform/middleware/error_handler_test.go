package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/afyajamii/afya/internal/errs"
)

func renderError(t *testing.T, err error) (int, map[string]string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_Sentinels(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantReason string
	}{
		{errs.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{errs.ErrAccountInactive, http.StatusForbidden, "account_inactive"},
		{errs.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{errs.ErrTokenMalformed, http.StatusUnauthorized, "token_malformed"},
		{errs.ErrDuplicateIdentity, http.StatusBadRequest, "duplicate_identity"},
		{fmt.Errorf("%w: age out of range", errs.ErrValidation), http.StatusBadRequest, "validation_failed"},
		{errs.ErrNotFound, http.StatusNotFound, "not_found"},
		{errs.ErrModelUnavailable, http.StatusInternalServerError, "dependency_unavailable"},
		{errors.New("database exploded"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		status, body := renderError(t, tt.err)
		if status != tt.wantStatus {
			t.Errorf("%v: status = %d, want %d", tt.err, status, tt.wantStatus)
		}
		if body["reason"] != tt.wantReason {
			t.Errorf("%v: reason = %q, want %q", tt.err, body["reason"], tt.wantReason)
		}
	}
}

func TestErrorHandler_OpaqueInternalMessage(t *testing.T) {
	_, body := renderError(t, errors.New("pq: connection refused to 10.0.0.5"))
	if body["message"] != "internal server error" {
		t.Errorf("message = %q, internal detail leaked", body["message"])
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	status, body := renderError(t, echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"))
	if status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", status)
	}
	if body["reason"] != "rate_limited" {
		t.Errorf("reason = %q, want rate_limited", body["reason"])
	}
	if body["message"] != "rate limit exceeded" {
		t.Errorf("message = %q", body["message"])
	}
}
