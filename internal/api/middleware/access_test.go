package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"garrison/internal/access"

	"github.com/labstack/echo/v4"
)

func invoke(t *testing.T, resource access.Resource, role string) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RequireResource(resource)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireResourceDeniesInsufficientRole(t *testing.T) {
	err := invoke(t, access.ResourceUsers, "logistics")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireResourceAllowsPermittedRole(t *testing.T) {
	if err := invoke(t, access.ResourceTransfers, "commander"); err != nil {
		t.Fatalf("commander denied transfers: %v", err)
	}
	if err := invoke(t, access.ResourceUsers, "admin"); err != nil {
		t.Fatalf("admin denied users: %v", err)
	}
}

func TestRequireResourceUnauthenticated(t *testing.T) {
	err := invoke(t, access.ResourceDashboard, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", httpErr.Code)
	}
}
