package api

import (
	"net/http"

	"garrison/internal/access"
	"garrison/internal/api/middleware"
	"garrison/internal/handlers"

	"github.com/labstack/echo/v4"
)

// registerRoutes wires the REST surface. Every route group maps to exactly
// one access.Resource; the RequireResource middleware evaluates the policy
// table so that no per-handler role checks exist anywhere.
func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "garrison")
	})
	s.echo.GET("/health", s.healthCheck)

	authHandler := handlers.NewAuthHandler(s.db)
	assetHandler := handlers.NewAssetHandler(s.db)
	baseHandler := handlers.NewBaseHandler(s.db)
	purchaseHandler := handlers.NewPurchaseHandler(s.db)
	transferHandler := handlers.NewTransferHandler(s.db)
	assignmentHandler := handlers.NewAssignmentHandler(s.db)
	userHandler := handlers.NewUserHandler(s.db)

	// Public: login only. Everything else requires a session.
	s.echo.POST("/auth/login", authHandler.Login)

	auth := middleware.NewAuthMiddleware(s.config.JWT.Secret)

	registration := s.echo.Group("/auth")
	registration.Use(auth.Middleware(), middleware.RequireResource(access.ResourceRegistration))
	registration.POST("/register", authHandler.Register)

	assets := s.echo.Group("/asset")
	assets.Use(auth.Middleware())
	assets.GET("/get-all", assetHandler.List, middleware.RequireResource(access.ResourceAssets))
	assets.POST("/add", assetHandler.Create, middleware.RequireResource(access.ResourceAssets))
	// The summary feeds the dashboard, which commanders may see even
	// though the asset register itself is closed to them.
	assets.GET("/summary", assetHandler.Summary, middleware.RequireResource(access.ResourceDashboard))

	bases := s.echo.Group("/base")
	bases.Use(auth.Middleware())
	// Reading the base list is needed by every form that references a
	// base; writes stay admin-only.
	bases.GET("/get-all-base", baseHandler.List, middleware.RequireResource(access.ResourceDashboard))
	bases.POST("/create", baseHandler.Create, middleware.RequireResource(access.ResourceBases))
	bases.PUT("/edit/:id", baseHandler.Update, middleware.RequireResource(access.ResourceBases))

	purchases := s.echo.Group("/purchase")
	purchases.Use(auth.Middleware(), middleware.RequireResource(access.ResourcePurchases))
	purchases.GET("/get", purchaseHandler.List)
	purchases.POST("/create", purchaseHandler.Create)

	transfers := s.echo.Group("/transfer")
	transfers.Use(auth.Middleware(), middleware.RequireResource(access.ResourceTransfers))
	transfers.GET("/get-all", transferHandler.List)
	transfers.POST("/create", transferHandler.Create)

	assignments := s.echo.Group("/assignment")
	assignments.Use(auth.Middleware(), middleware.RequireResource(access.ResourceAssignments))
	assignments.GET("", assignmentHandler.List)
	assignments.POST("", assignmentHandler.Create)
	assignments.PUT("/:id/status", assignmentHandler.UpdateStatus)

	users := s.echo.Group("/user")
	users.Use(auth.Middleware(), middleware.RequireResource(access.ResourceUsers))
	users.GET("/get-users", userHandler.List)
	users.POST("/register", authHandler.Register)
	users.PUT("/edit-user/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
}
