package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"veranda/internal/api/middleware"
)

// OwnedController serves read endpoints for resources carrying a direct
// owner_id column. When OwnerResourceAccess attached a caller owner id,
// List scopes the query to it — this is the self-filtering contract the
// annotating gate depends on. Instance reads are guarded upstream by
// RequireOwnership, so Get performs a plain lookup.
type OwnedController[T any] struct {
	db *gorm.DB
}

func NewOwnedController[T any](db *gorm.DB) *OwnedController[T] {
	return &OwnedController[T]{db: db}
}

func (h *OwnedController[T]) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.WithContext(c.Request().Context())
	if ownerID, ok := middleware.CallerOwnerID(c); ok {
		// Callers without an owner record see an empty collection, never an
		// unscoped one.
		query = query.Where("owner_id = ?", ownerID)
	}

	var items []T
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list resources")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *OwnedController[T]) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}

	var item T
	if err := h.db.WithContext(c.Request().Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "resource not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load resource")
	}

	return c.JSON(http.StatusOK, item)
}
