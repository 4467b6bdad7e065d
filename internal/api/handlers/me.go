package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"veranda/internal/api/middleware"
	"veranda/internal/authz"
)

// MeHandler exposes the caller's own identity and effective permissions.
type MeHandler struct {
	grants authz.GrantReader
}

func NewMeHandler(grants authz.GrantReader) *MeHandler {
	return &MeHandler{grants: grants}
}

// Profile returns the Principal attached by the auth middleware.
func (h *MeHandler) Profile(c echo.Context) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	return c.JSON(http.StatusOK, principal)
}

// Permissions returns every grant the caller's role holds, grouped by
// module. Admins see the full catalog.
func (h *MeHandler) Permissions(c echo.Context) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	return c.JSON(http.StatusOK, h.grants.PermissionsForRole(c.Request().Context(), principal.RoleID))
}
