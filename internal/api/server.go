package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"veranda/internal/api/validator"
	"veranda/internal/authz"
	"veranda/internal/config"
	"veranda/internal/models"
	"veranda/internal/token"
	console "veranda/internal/utils/logger"
)

type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB

	tokens *token.Manager
	grants authz.GrantReader
	owners *authz.OwnershipResolver
}

var log = console.New("api-server")

// NewServer wires the authorization core into an Echo server. redisClient
// may be nil; the grant cache is only installed when both the client and a
// cache TTL are configured.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Validator = validator.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	e.Use(middleware.BodyLimit("2M"))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	e.HTTPErrorHandler = customHTTPErrorHandler

	if err := models.SeedCatalog(db); err != nil {
		log.Warn("Failed to seed permission catalog: %v", err)
	} else {
		log.Success("Permission catalog seeded")
	}

	if err := models.CreateAdminFromEnv(db, cfg); err != nil {
		log.Warn("Failed to create admin user: %v", err)
	}

	var grants authz.GrantReader = authz.NewGrantStore(db, cfg.Auth.AdminRoleID)
	if redisClient != nil && cfg.Cache.GrantTTL > 0 {
		grants = authz.NewCachedGrants(grants, redisClient, cfg.Cache.GrantTTL)
		log.Info("Grant cache enabled (ttl %s)", cfg.Cache.GrantTTL)
	}

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
		tokens: token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL),
		grants: grants,
		owners: authz.NewOwnershipResolver(db, grants),
	}

	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Custom HTTP error handler. Denials stay generic on the wire; whatever
// detail exists was already logged where the failure happened.
func customHTTPErrorHandler(err error, c echo.Context) {
	var (
		code    = http.StatusInternalServerError
		message interface{}
	)

	switch e := err.(type) {
	case *echo.HTTPError:
		code = e.Code
		message = e.Message
	case validator.ValidationErrors:
		code = http.StatusBadRequest
		message = formatValidationErrors(e)
	default:
		message = http.StatusText(code)
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]interface{}{
				"error": message,
				"code":  code,
				"time":  time.Now().Format(time.RFC3339),
			})
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}

func formatValidationErrors(errors validator.ValidationErrors) map[string]string {
	errMap := make(map[string]string)
	for _, err := range errors {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errMap[field] = fmt.Sprintf("%s is required", field)
		case "email":
			errMap[field] = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			errMap[field] = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			errMap[field] = fmt.Sprintf("%s must be at most %s", field, param)
		case "gt":
			errMap[field] = fmt.Sprintf("%s must be greater than %s", field, param)
		case "gtfield":
			errMap[field] = fmt.Sprintf("%s must be after %s", field, param)
		case "user_status":
			errMap[field] = fmt.Sprintf("%s must be either 'ACTIVE' or 'INACTIVE'", field)
		case "reservation_status":
			errMap[field] = fmt.Sprintf("%s must be one of: PENDING, APPROVED, CANCELLED", field)
		case "pqrs_status":
			errMap[field] = fmt.Sprintf("%s must be one of: OPEN, IN_REVIEW, CLOSED", field)
		default:
			errMap[field] = fmt.Sprintf("%s failed validation: %s", field, tag)
		}
	}
	return errMap
}
