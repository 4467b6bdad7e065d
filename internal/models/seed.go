package models

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"veranda/internal/config"
	console "veranda/internal/utils/logger"
)

var log = console.New("seeder")

// Catalog of guarded modules. Roles, bindings and grants all hang off these.
var defaultModules = []string{
	"apartments",
	"pets",
	"pqrs",
	"reservations",
	"payments",
	"tenants",
	"owners",
	"users",
	"roles",
}

var defaultPermissions = []string{"create", "read", "update", "delete"}

var defaultRoles = []string{"Admin", "Owner", "Security"}

// Per-role grant map in "module:permission" form. "module:*" expands to every
// permission in the catalog. Admin carries no grants: its role id bypasses the
// graph entirely.
var roleGrants = map[string][]string{
	"Owner": {
		"apartments:read",
		"pets:*",
		"pqrs:create", "pqrs:read",
		"reservations:create", "reservations:read", "reservations:update",
		"payments:create", "payments:read",
		"tenants:read",
	},
	"Security": {
		"apartments:read",
		"pets:read",
		"pqrs:create", "pqrs:read",
		"reservations:read",
		"tenants:read",
	},
}

// SeedCatalog creates the role/module/permission catalog and the default
// grant graph. Idempotent: reruns only fill in missing rows.
func SeedCatalog(db *gorm.DB) error {
	for _, name := range defaultRoles {
		role := Role{Name: name}
		if err := db.FirstOrCreate(&role, Role{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to create role %s: %v", name, err)
		}
	}

	for _, name := range defaultModules {
		module := Module{Name: name}
		if err := db.FirstOrCreate(&module, Module{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to create module %s: %v", name, err)
		}
	}

	for _, name := range defaultPermissions {
		permission := Permission{Name: name}
		if err := db.FirstOrCreate(&permission, Permission{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to create permission %s: %v", name, err)
		}
	}

	for roleName, grants := range roleGrants {
		log.Info("Seeding grants for role: %s", roleName)

		var role Role
		if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
			return fmt.Errorf("failed to find role %s: %v", roleName, err)
		}

		for _, grant := range grants {
			parts := strings.Split(grant, ":")
			if len(parts) != 2 {
				return fmt.Errorf("invalid grant format: %s", grant)
			}
			moduleName, permissionName := parts[0], parts[1]

			if permissionName == "*" {
				for _, p := range defaultPermissions {
					if err := createGrant(db, role.ID, moduleName, p); err != nil {
						return err
					}
				}
				continue
			}

			if err := createGrant(db, role.ID, moduleName, permissionName); err != nil {
				return err
			}
		}
	}

	return nil
}

func createGrant(db *gorm.DB, roleID uint, moduleName, permissionName string) error {
	var module Module
	if err := db.Where("name = ?", moduleName).First(&module).Error; err != nil {
		return fmt.Errorf("failed to find module %s: %v", moduleName, err)
	}

	var permission Permission
	if err := db.Where("name = ?", permissionName).First(&permission).Error; err != nil {
		return fmt.Errorf("failed to find permission %s: %v", permissionName, err)
	}

	binding := ModuleRole{RoleID: roleID, ModuleID: module.ID}
	if err := db.FirstOrCreate(&binding, ModuleRole{RoleID: roleID, ModuleID: module.ID}).Error; err != nil {
		return fmt.Errorf("failed to create module binding %s for role %d: %v", moduleName, roleID, err)
	}

	grant := PermissionModuleRole{ModuleRoleID: binding.ID, PermissionID: permission.ID}
	if err := db.FirstOrCreate(&grant, PermissionModuleRole{ModuleRoleID: binding.ID, PermissionID: permission.ID}).Error; err != nil {
		return fmt.Errorf("failed to create grant %s:%s for role %d: %v", moduleName, permissionName, roleID, err)
	}

	return nil
}

// CreateAdminFromEnv bootstraps the first administrator account. No-op when
// a user already holds the configured admin role.
func CreateAdminFromEnv(db *gorm.DB, cfg *config.Config) error {
	var count int64
	db.Model(&User{}).Where("role_id = ?", cfg.Auth.AdminRoleID).Count(&count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("ADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("ADMIN_EMAIL not set")
	}

	password, ok := os.LookupEnv("ADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("ADMIN_PASSWORD not set")
	}

	name, ok := os.LookupEnv("ADMIN_NAME")
	if !ok {
		return fmt.Errorf("ADMIN_NAME not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	user := User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Status:   UserStatusActive,
		RoleID:   cfg.Auth.AdminRoleID,
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %v", err)
	}

	log.Success("Created admin user %s", email)
	return nil
}
