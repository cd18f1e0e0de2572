package middleware

import (
	"net/http"

	"garrison/internal/access"

	"github.com/labstack/echo/v4"
)

// RequireResource gates a route group behind the role -> resource policy
// table. It runs after the auth middleware has stored the actor's role in
// the request context, so a missing role means an unauthenticated request.
// Denial is terminal: the handler is never reached.
func RequireResource(resource access.Resource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := GetUserRole(c)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			if !access.CanAccess(role, resource) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			return next(c)
		}
	}
}
