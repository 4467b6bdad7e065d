package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"veranda/internal/authz"
)

const callerOwnerIDKey = "callerOwnerID"

// Gates below compose left-to-right as declared on a route; the first
// rejection terminates the pipeline. All of them expect the auth middleware
// to have run first and fail closed when it has not.

// RequireRoles allows only principals whose role id is in the allow-list.
// An empty list is a deliberate pass-through: authenticated is sufficient.
func RequireRoles(roleIDs ...uint) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := CurrentPrincipal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			if len(roleIDs) == 0 {
				return next(c)
			}

			for _, id := range roleIDs {
				if principal.RoleID == id {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "access denied")
		}
	}
}

// RequirePermission allows principals whose role holds the named grant.
func RequirePermission(grants authz.GrantReader, module, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := CurrentPrincipal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			if !grants.HasPermission(c.Request().Context(), principal.RoleID, module, permission) {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}

			return next(c)
		}
	}
}

// RequirePermissions demands every listed grant. Admins short-circuit the
// whole list; everyone else is denied on the first missing pair.
func RequirePermissions(grants authz.GrantReader, required ...authz.ModulePermission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := CurrentPrincipal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			if grants.IsAdminRole(principal.RoleID) {
				return next(c)
			}

			for _, pair := range required {
				if !grants.HasPermission(c.Request().Context(), principal.RoleID, pair.Module, pair.Permission) {
					return echo.NewHTTPError(http.StatusForbidden, "access denied")
				}
			}

			return next(c)
		}
	}
}

// RequireOwnership allows only the recorded owner of the resource instance
// named by the route parameter. Collection-level requests carry no instance
// id and pass through; the downstream handler must then scope its query to
// the caller's own records.
func RequireOwnership(owners authz.OwnerChecker, category, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := CurrentPrincipal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			raw := c.Param(param)
			if raw == "" {
				return next(c)
			}

			resourceID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}

			if !owners.Owns(c.Request().Context(), principal, category, uint(resourceID)) {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}

			return next(c)
		}
	}
}

// OwnerResourceAccess attaches the caller's owner-record id to the context
// for the handler to filter with. It never blocks non-admin callers and thus
// enforces nothing on its own: it is strictly weaker than RequireOwnership
// and must only guard routes whose handlers scope queries by CallerOwnerID.
func OwnerResourceAccess(grants authz.GrantReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := CurrentPrincipal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			if grants.IsAdminRole(principal.RoleID) {
				return next(c)
			}

			c.Set(callerOwnerIDKey, principal.OwnerID)
			return next(c)
		}
	}
}

// CallerOwnerID returns the owner id attached by OwnerResourceAccess. The
// zero id with ok=true means the caller has no owner record; handlers should
// return empty collections for such callers rather than unscoped ones.
func CallerOwnerID(c echo.Context) (uint, bool) {
	id, ok := c.Get(callerOwnerIDKey).(uint)
	return id, ok
}
