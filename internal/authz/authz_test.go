package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"veranda/internal/models"
)

const adminRoleID = 1

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.Module{},
		&models.Permission{},
		&models.ModuleRole{},
		&models.PermissionModuleRole{},
		&models.User{},
		&models.Owner{},
		&models.Apartment{},
		&models.Pet{},
		&models.Pqrs{},
		&models.Reservation{},
		&models.Payment{},
		&models.Tenant{},
	))

	return db
}

// seedGrantGraph builds the scenario used across the package tests:
// role 2 ("Owner") holds reservations:create and pets:read, nothing else.
func seedGrantGraph(t *testing.T, db *gorm.DB) {
	t.Helper()

	roles := []models.Role{
		{Base: models.Base{ID: 1}, Name: "Admin"},
		{Base: models.Base{ID: 2}, Name: "Owner"},
		{Base: models.Base{ID: 3}, Name: "Security"},
	}
	require.NoError(t, db.Create(&roles).Error)

	modules := []models.Module{
		{Base: models.Base{ID: 1}, Name: "reservations"},
		{Base: models.Base{ID: 2}, Name: "users"},
		{Base: models.Base{ID: 3}, Name: "pets"},
	}
	require.NoError(t, db.Create(&modules).Error)

	permissions := []models.Permission{
		{Base: models.Base{ID: 1}, Name: "create"},
		{Base: models.Base{ID: 2}, Name: "read"},
	}
	require.NoError(t, db.Create(&permissions).Error)

	bindings := []models.ModuleRole{
		{Base: models.Base{ID: 1}, RoleID: 2, ModuleID: 1}, // Owner ↔ reservations
		{Base: models.Base{ID: 2}, RoleID: 2, ModuleID: 3}, // Owner ↔ pets
	}
	require.NoError(t, db.Create(&bindings).Error)

	grants := []models.PermissionModuleRole{
		{Base: models.Base{ID: 1}, ModuleRoleID: 1, PermissionID: 1}, // reservations:create
		{Base: models.Base{ID: 2}, ModuleRoleID: 2, PermissionID: 2}, // pets:read
	}
	require.NoError(t, db.Create(&grants).Error)
}

// seedOwnership adds the pet scenario: pet 7 owned via owner record 3 by
// user 10; user 11 owns nothing.
func seedOwnership(t *testing.T, db *gorm.DB) {
	t.Helper()

	users := []models.User{
		{Base: models.Base{ID: 10}, Name: "Ana", Email: "ana@example.com", Password: "x", Status: models.UserStatusActive, RoleID: 2},
		{Base: models.Base{ID: 11}, Name: "Luis", Email: "luis@example.com", Password: "x", Status: models.UserStatusActive, RoleID: 2},
		{Base: models.Base{ID: 12}, Name: "Root", Email: "root@example.com", Password: "x", Status: models.UserStatusActive, RoleID: adminRoleID},
	}
	require.NoError(t, db.Create(&users).Error)

	owner := models.Owner{Base: models.Base{ID: 3}, UserID: 10, DocumentNumber: "CC-100"}
	require.NoError(t, db.Create(&owner).Error)

	apartment := models.Apartment{Base: models.Base{ID: 5}, Number: "T1-101", OwnerID: 3}
	require.NoError(t, db.Create(&apartment).Error)

	pet := models.Pet{Base: models.Base{ID: 7}, Name: "Rocky", Species: "dog", OwnerID: 3, ApartmentID: 5}
	require.NoError(t, db.Create(&pet).Error)

	tenant := models.Tenant{Base: models.Base{ID: 4}, Name: "Marta", ApartmentID: 5}
	require.NoError(t, db.Create(&tenant).Error)
}
