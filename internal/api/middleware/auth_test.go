package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"veranda/internal/authz"
	"veranda/internal/models"
	"veranda/internal/token"
)

func newAuthFixture(t *testing.T) (*AuthMiddleware, *token.Manager, *echo.Echo) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Owner{}))
	require.NoError(t, db.Create(&models.Owner{Base: models.Base{ID: 3}, UserID: 10}).Error)

	tokens := token.NewManager("test-secret", time.Hour)
	return NewAuthMiddleware(tokens, db, "Owner"), tokens, echo.New()
}

func invoke(e *echo.Echo, am *AuthMiddleware, authHeader string) (*echo.HTTPError, authz.Principal, bool) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var principal authz.Principal
	var reached bool
	err := am.Middleware()(func(c echo.Context) error {
		principal, reached = CurrentPrincipal(c)
		return c.NoContent(http.StatusOK)
	})(c)

	if err == nil {
		return nil, principal, reached
	}
	httpErr, _ := err.(*echo.HTTPError)
	return httpErr, principal, reached
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	am, _, e := newAuthFixture(t)

	httpErr, _, reached := invoke(e, am, "")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.False(t, reached)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	am, tokens, e := newAuthFixture(t)

	raw, err := tokens.Issue(models.User{Base: models.Base{ID: 10}, RoleID: 2}, "Owner")
	require.NoError(t, err)

	for _, header := range []string{"Bearer", "Basic " + raw, raw} {
		httpErr, _, reached := invoke(e, am, header)
		require.NotNil(t, httpErr, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		assert.False(t, reached)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	am, _, e := newAuthFixture(t)

	httpErr, _, reached := invoke(e, am, "Bearer not-a-real-token")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.False(t, reached)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	am, _, e := newAuthFixture(t)

	expired := token.NewManager("test-secret", -time.Minute)
	raw, err := expired.Issue(models.User{Base: models.Base{ID: 10}, RoleID: 2}, "Owner")
	require.NoError(t, err)

	httpErr, _, reached := invoke(e, am, "Bearer "+raw)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.False(t, reached)
}

func TestAuthMiddlewareAttachesEnrichedPrincipal(t *testing.T) {
	am, tokens, e := newAuthFixture(t)

	raw, err := tokens.Issue(models.User{Base: models.Base{ID: 10}, Name: "Ana", RoleID: 2}, "Owner")
	require.NoError(t, err)

	httpErr, principal, reached := invoke(e, am, "Bearer "+raw)
	require.Nil(t, httpErr)
	require.True(t, reached)
	assert.Equal(t, uint(10), principal.UserID)
	assert.Equal(t, uint(2), principal.RoleID)
	assert.Equal(t, "Owner", principal.RoleName)
	// Enrichment resolved the owner record in the same pass.
	assert.Equal(t, uint(3), principal.OwnerID)
}

func TestAuthMiddlewareMissingOwnerRecordStillVerifies(t *testing.T) {
	am, tokens, e := newAuthFixture(t)

	// User 99 holds the owner role but has no owner row.
	raw, err := tokens.Issue(models.User{Base: models.Base{ID: 99}, Name: "New", RoleID: 2}, "Owner")
	require.NoError(t, err)

	httpErr, principal, reached := invoke(e, am, "Bearer "+raw)
	require.Nil(t, httpErr)
	require.True(t, reached)
	assert.Zero(t, principal.OwnerID)
}

func TestAuthMiddlewareNonOwnerSkipsEnrichment(t *testing.T) {
	am, tokens, e := newAuthFixture(t)

	raw, err := tokens.Issue(models.User{Base: models.Base{ID: 12}, Name: "Root", RoleID: 1}, "Admin")
	require.NoError(t, err)

	httpErr, principal, reached := invoke(e, am, "Bearer "+raw)
	require.Nil(t, httpErr)
	require.True(t, reached)
	assert.Equal(t, "Admin", principal.RoleName)
	assert.Zero(t, principal.OwnerID)
}
