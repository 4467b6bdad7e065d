package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"veranda/internal/authz"
	"veranda/internal/models"
	"veranda/internal/token"
	console "veranda/internal/utils/logger"
)

var log = console.New("auth_middleware")

const principalContextKey = "principal"

// AuthMiddleware turns a bearer credential into a Principal on the request
// context. It is the mandatory first gate: everything downstream reads the
// Principal it attaches.
type AuthMiddleware struct {
	tokens        *token.Manager
	db            *gorm.DB
	ownerRoleName string
}

func NewAuthMiddleware(tokens *token.Manager, db *gorm.DB, ownerRoleName string) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:        tokens,
		db:            db,
		ownerRoleName: ownerRoleName,
	}
}

func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			claims, err := m.tokens.Parse(tokenParts[1])
			if err != nil {
				// One message for every verification failure; callers must
				// not learn whether the signature or the expiry rejected it.
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			principal := authz.Principal{
				UserID:   claims.UserID,
				Name:     claims.Name,
				RoleID:   claims.RoleID,
				RoleName: claims.RoleName,
			}

			// Owners get their owner-record id resolved once here so the
			// ownership gates never need a second lookup. Best effort: a
			// missing record is not a verification failure.
			if claims.RoleName == m.ownerRoleName {
				var owner models.Owner
				if err := m.db.WithContext(c.Request().Context()).
					Where("user_id = ?", claims.UserID).
					First(&owner).Error; err == nil {
					principal.OwnerID = owner.ID
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					log.Warn("owner enrichment failed for user %d: %v", claims.UserID, err)
				}
			}

			c.Set(principalContextKey, principal)

			return next(c)
		}
	}
}

// CurrentPrincipal returns the Principal attached by the auth middleware.
// The second return is false on routes where the middleware never ran.
func CurrentPrincipal(c echo.Context) (authz.Principal, bool) {
	principal, ok := c.Get(principalContextKey).(authz.Principal)
	return principal, ok
}
