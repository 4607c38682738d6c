package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eventzone/eventzone-api/internal/api/middleware"
	"github.com/eventzone/eventzone-api/internal/core/domain"
)

func TestPrincipalHandler_Me(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/me", nil), rec)
	middleware.SetPrincipal(c, domain.Principal{Subject: "alice@example.com", Roles: []string{domain.RoleUser}})

	if err := NewPrincipalHandler().Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp principalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Subject != "alice@example.com" || len(resp.Roles) != 1 || resp.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPrincipalHandler_WithoutPrincipal(t *testing.T) {
	e := echo.New()
	h := NewPrincipalHandler()

	for name, fn := range map[string]echo.HandlerFunc{
		"me":        h.Me,
		"admin":     h.AdminPanel,
		"dashboard": h.UserDashboard,
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if err := fn(c); !errors.Is(err, domain.ErrTokenMissing) {
			t.Fatalf("%s: expected ErrTokenMissing, got %v", name, err)
		}
	}
}

func TestPrincipalHandler_AdminPanel(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/panel", nil), rec)
	middleware.SetPrincipal(c, domain.Principal{Subject: "admin@example.com", Roles: []string{domain.RoleAdmin}})

	if err := NewPrincipalHandler().AdminPanel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp areaResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Area != "admin" || resp.Subject != "admin@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
