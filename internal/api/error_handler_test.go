package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/plataforma/accounts-api/internal/core/domain"
)

func newTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestResolveError_DomainMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{fmt.Errorf("%w: name is required", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrEmailTaken, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusBadRequest},
		{domain.ErrMissingToken, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusForbidden},
		{domain.ErrExpiredToken, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, _ := resolveError(tt.err, zerolog.Nop(), newTestContext())
		if code != tt.wantCode {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.wantCode, code)
		}
	}
}

func TestResolveError_InvalidAndExpiredTokenLookAlike(t *testing.T) {
	c := newTestContext()
	invalidCode, invalidMsg := resolveError(domain.ErrInvalidToken, zerolog.Nop(), c)
	expiredCode, expiredMsg := resolveError(domain.ErrExpiredToken, zerolog.Nop(), c)

	if invalidCode != expiredCode || invalidMsg != expiredMsg {
		t.Fatalf("invalid and expired tokens must be indistinguishable externally: (%d %q) vs (%d %q)",
			invalidCode, invalidMsg, expiredCode, expiredMsg)
	}
}

func TestResolveError_InternalDetailNotLeaked(t *testing.T) {
	_, msg := resolveError(errors.New("mongo: connection reset by peer"), zerolog.Nop(), newTestContext())
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked to client: %q", msg)
	}
}

func TestResolveError_EchoHTTPError(t *testing.T) {
	code, msg := resolveError(echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), zerolog.Nop(), newTestContext())
	if code != http.StatusBadRequest || msg != "invalid payload" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_Envelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHTTPErrorHandler(zerolog.Nop())
	h(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "user not found" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}
