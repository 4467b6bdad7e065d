package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"veranda/internal/api/middleware"
	"veranda/internal/models"
)

// TenantController needs its own listing: tenants reach their owner through
// the apartment they live in, so the self-filter is a join rather than an
// owner_id column.
type TenantController struct {
	db *gorm.DB
}

func NewTenantController(db *gorm.DB) *TenantController {
	return &TenantController{db: db}
}

func (h *TenantController) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.WithContext(c.Request().Context()).Model(&models.Tenant{})
	if ownerID, ok := middleware.CallerOwnerID(c); ok {
		query = query.
			Joins("JOIN apartments ON apartments.id = tenants.apartment_id").
			Where("apartments.owner_id = ?", ownerID)
	}

	var tenants []models.Tenant
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&tenants).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list tenants")
	}

	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantController) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}

	var tenant models.Tenant
	if err := h.db.WithContext(c.Request().Context()).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "resource not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load resource")
	}

	return c.JSON(http.StatusOK, tenant)
}
