package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"veranda/internal/api/handlers"
	mw "veranda/internal/api/middleware"
	"veranda/internal/authz"
	"veranda/internal/models"
)

// Route table. Gates are declared per route, left to right; declaration
// order is authorization order and the first rejection terminates the chain.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	auth := mw.NewAuthMiddleware(s.tokens, s.db, s.config.Auth.OwnerRoleName)
	api.Use(auth.Middleware())

	me := handlers.NewMeHandler(s.grants)
	api.GET("/me", me.Profile)
	api.GET("/me/permissions", me.Permissions)

	apartments := handlers.NewOwnedController[models.Apartment](s.db)
	api.GET("/apartments", apartments.List,
		mw.RequirePermission(s.grants, "apartments", "read"),
		mw.OwnerResourceAccess(s.grants))
	api.GET("/apartments/:id", apartments.Get,
		mw.RequirePermission(s.grants, "apartments", "read"),
		mw.RequireOwnership(s.owners, authz.CategoryApartment, "id"))

	pets := handlers.NewOwnedController[models.Pet](s.db)
	api.GET("/pets", pets.List,
		mw.RequirePermission(s.grants, "pets", "read"),
		mw.OwnerResourceAccess(s.grants))
	api.GET("/pets/:id", pets.Get,
		mw.RequirePermission(s.grants, "pets", "read"),
		mw.RequireOwnership(s.owners, authz.CategoryPet, "id"))

	pqrs := handlers.NewOwnedController[models.Pqrs](s.db)
	api.GET("/pqrs", pqrs.List,
		mw.RequirePermission(s.grants, "pqrs", "read"),
		mw.OwnerResourceAccess(s.grants))
	api.GET("/pqrs/:id", pqrs.Get,
		mw.RequirePermission(s.grants, "pqrs", "read"),
		mw.RequireOwnership(s.owners, authz.CategoryPqrs, "id"))

	reservations := handlers.NewOwnedController[models.Reservation](s.db)
	api.GET("/reservations", reservations.List,
		mw.RequirePermission(s.grants, "reservations", "read"),
		mw.OwnerResourceAccess(s.grants))
	api.GET("/reservations/:id", reservations.Get,
		mw.RequirePermission(s.grants, "reservations", "read"),
		mw.RequireOwnership(s.owners, authz.CategoryReservation, "id"))

	payments := handlers.NewOwnedController[models.Payment](s.db)
	api.GET("/payments", payments.List,
		mw.RequirePermission(s.grants, "payments", "read"),
		mw.OwnerResourceAccess(s.grants))
	api.GET("/payments/:id", payments.Get,
		mw.RequirePermission(s.grants, "payments", "read"),
		mw.RequireOwnership(s.owners, authz.CategoryPayment, "id"))

	tenants := handlers.NewTenantController(s.db)
	api.GET("/tenants", tenants.List,
		mw.RequirePermissions(s.grants,
			authz.ModulePermission{Module: "tenants", Permission: "read"},
			authz.ModulePermission{Module: "apartments", Permission: "read"}),
		mw.OwnerResourceAccess(s.grants))
	api.GET("/tenants/:id", tenants.Get,
		mw.RequirePermission(s.grants, "tenants", "read"),
		mw.RequireOwnership(s.owners, authz.CategoryTenant, "id"))

	// Account administration is locked to the admin role outright.
	api.GET("/users", s.listUsers,
		mw.RequireRoles(s.config.Auth.AdminRoleID))
	api.GET("/users/:id", s.getUser,
		mw.RequireOwnership(s.owners, authz.CategoryProfile, "id"))
}

func (s *Server) listUsers(c echo.Context) error {
	var users []models.User
	if err := s.db.WithContext(c.Request().Context()).Preload("Role").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c echo.Context) error {
	var user models.User
	if err := s.db.WithContext(c.Request().Context()).Preload("Role").First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")
	}
	return c.JSON(http.StatusOK, user)
}
