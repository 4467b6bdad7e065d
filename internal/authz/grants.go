// Package authz implements the authorization core: permission resolution
// against the role/module/permission grant graph and per-category resource
// ownership checks. Every store failure inside this package is logged and
// normalized to a denial; callers only ever see booleans.
package authz

import (
	"context"

	"gorm.io/gorm"

	"veranda/internal/models"
	console "veranda/internal/utils/logger"
)

var log = console.New("authz")

// ModulePermission names one required grant for the multi-grant gate.
type ModulePermission struct {
	Module     string
	Permission string
}

// GrantReader answers permission questions for a role. Implemented by
// GrantStore and its caching decorator; middleware depends on this interface
// so tests can substitute doubles.
type GrantReader interface {
	// IsAdminRole reports whether roleID is the configured administrator
	// role, which bypasses every other check.
	IsAdminRole(roleID uint) bool

	// HasPermission reports whether the role may perform the named permission
	// on the named module. Absence of a grant and store failures both read
	// as false.
	HasPermission(ctx context.Context, roleID uint, module, permission string) bool

	// PermissionsForRole returns every granted permission name grouped by
	// module name. Admins get the full module × permission cross-product.
	PermissionsForRole(ctx context.Context, roleID uint) map[string][]string
}

// GrantStore resolves permissions with read-only queries over the grant
// graph. It holds no per-request state and is safe for concurrent use.
type GrantStore struct {
	db          *gorm.DB
	adminRoleID uint
}

func NewGrantStore(db *gorm.DB, adminRoleID uint) *GrantStore {
	return &GrantStore{db: db, adminRoleID: adminRoleID}
}

func (s *GrantStore) IsAdminRole(roleID uint) bool {
	return roleID == s.adminRoleID
}

func (s *GrantStore) HasPermission(ctx context.Context, roleID uint, module, permission string) bool {
	if s.IsAdminRole(roleID) {
		return true
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.PermissionModuleRole{}).
		Joins("JOIN module_roles ON module_roles.id = permission_module_roles.module_role_id").
		Joins("JOIN modules ON modules.id = module_roles.module_id").
		Joins("JOIN permissions ON permissions.id = permission_module_roles.permission_id").
		Where("module_roles.role_id = ? AND modules.name = ? AND permissions.name = ?", roleID, module, permission).
		Count(&count).Error
	if err != nil {
		// Fail closed: a broken store must never grant access.
		log.Warn("permission lookup failed for role %d on %s:%s: %v", roleID, module, permission, err)
		return false
	}

	return count > 0
}

type grantRow struct {
	Module     string
	Permission string
}

func (s *GrantStore) PermissionsForRole(ctx context.Context, roleID uint) map[string][]string {
	result := make(map[string][]string)

	if s.IsAdminRole(roleID) {
		// Admins are entitled to everything in the catalog, including
		// modules no role is explicitly bound to.
		var moduleNames []string
		if err := s.db.WithContext(ctx).Model(&models.Module{}).Pluck("name", &moduleNames).Error; err != nil {
			log.Warn("module catalog lookup failed: %v", err)
			return result
		}
		var permissionNames []string
		if err := s.db.WithContext(ctx).Model(&models.Permission{}).Pluck("name", &permissionNames).Error; err != nil {
			log.Warn("permission catalog lookup failed: %v", err)
			return result
		}
		for _, m := range moduleNames {
			result[m] = append([]string(nil), permissionNames...)
		}
		return result
	}

	var rows []grantRow
	err := s.db.WithContext(ctx).
		Model(&models.PermissionModuleRole{}).
		Select("modules.name AS module, permissions.name AS permission").
		Joins("JOIN module_roles ON module_roles.id = permission_module_roles.module_role_id").
		Joins("JOIN modules ON modules.id = module_roles.module_id").
		Joins("JOIN permissions ON permissions.id = permission_module_roles.permission_id").
		Where("module_roles.role_id = ?", roleID).
		Scan(&rows).Error
	if err != nil {
		log.Warn("grant listing failed for role %d: %v", roleID, err)
		return result
	}

	for _, row := range rows {
		result[row.Module] = append(result[row.Module], row.Permission)
	}
	return result
}
