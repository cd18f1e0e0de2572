package api

import (
	"github.com/go-advanced-admin/admin"
	admingorm "github.com/go-advanced-admin/orm-gorm"
	adminecho "github.com/go-advanced-admin/web-echo"
	"github.com/labstack/echo/v4"

	"garrison/internal/access"
	apimw "garrison/internal/api/middleware"
	"garrison/internal/models"
)

// adminPanelAllowed decides whether a role may use the back-office panel.
// The panel administers user accounts and bases, so it requires both
// resources; the matrix makes both admin-only.
func adminPanelAllowed(role access.Role) bool {
	return access.CanAccess(role, access.ResourceUsers) &&
		access.CanAccess(role, access.ResourceBases)
}

// registerAdminPanel mounts the generated back-office over User and Base
// under /admin. The panel's permission hook delegates to the same policy
// table as every REST route; the group runs the auth middleware so the
// actor's role is in the request context by the time the hook fires.
func (s *Server) registerAdminPanel() error {
	auth := apimw.NewAuthMiddleware(s.config.JWT.Secret)
	group := s.echo.Group("/admin", auth.Middleware())

	gormIntegrator := admingorm.NewIntegrator(s.db)
	echoIntegrator := adminecho.NewIntegrator(group)

	permissionChecker := func(
		request admin.PermissionRequest, ctx interface{},
	) (bool, error) {
		c, ok := ctx.(echo.Context)
		if !ok {
			return false, nil
		}
		return adminPanelAllowed(apimw.GetUserRole(c)), nil
	}

	adminPanel, err := admin.NewPanel(
		gormIntegrator, echoIntegrator, permissionChecker, nil,
	)
	if err != nil {
		return log.Error("Failed to create admin panel", err)
	}

	app, err := adminPanel.RegisterApp(
		"Garrison",
		"Garrison Administration",
		nil,
	)
	if err != nil {
		return log.Error("Failed to register admin app", err)
	}

	if _, err := app.RegisterModel(&models.User{}, nil); err != nil {
		return log.Error("Failed to register user model", err)
	}
	if _, err := app.RegisterModel(&models.Base{}, nil); err != nil {
		return log.Error("Failed to register base model", err)
	}

	return nil
}
