package models

// Role is a named category of user. The administrator role id (from config)
// bypasses every permission and ownership check.
type Role struct {
	Base
	Name  string `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=2"`
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

// Module names a resource category guarded by the grant graph
// (e.g. "apartments", "payments"). It is a stable catalog, not source code.
type Module struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=2"`
}

// Permission names an action. Conventionally create/read/update/delete,
// but the set is open to custom actions.
type Permission struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=2"`
}

// ModuleRole associates a role with a module. A role with no ModuleRole row
// for a module has no access to it at all.
type ModuleRole struct {
	Base
	RoleID   uint    `gorm:"not null;uniqueIndex:idx_module_role" json:"roleId"`
	Role     *Role   `json:"role,omitempty"`
	ModuleID uint    `gorm:"not null;uniqueIndex:idx_module_role" json:"moduleId"`
	Module   *Module `json:"module,omitempty"`
}

// PermissionModuleRole is the atomic grant: role R may perform permission P
// on module M, expressed through the ModuleRole binding. Absence of a row is
// denial, never an error.
type PermissionModuleRole struct {
	Base
	ModuleRoleID uint        `gorm:"not null;uniqueIndex:idx_perm_module_role" json:"moduleRoleId"`
	ModuleRole   *ModuleRole `json:"moduleRole,omitempty"`
	PermissionID uint        `gorm:"not null;uniqueIndex:idx_perm_module_role" json:"permissionId"`
	Permission   *Permission `json:"permission,omitempty"`
}

// User is the persisted account a Principal is derived from.
type User struct {
	Base
	Name     string     `gorm:"not null" json:"name" validate:"required,min=2"`
	Email    string     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string     `gorm:"not null" json:"-"`
	Status   UserStatus `gorm:"not null;default:'ACTIVE'" json:"status" validate:"required,user_status"`
	RoleID   uint       `gorm:"not null" json:"roleId" validate:"required"`
	Role     *Role      `json:"role,omitempty"`
}

// Owner is the resident record backing ownership checks. Users whose role is
// the configured owner role have exactly one Owner row; domain resources
// reference it, not the user directly.
type Owner struct {
	Base
	UserID         uint   `gorm:"uniqueIndex;not null" json:"userId"`
	User           *User  `json:"user,omitempty"`
	Phone          string `json:"phone"`
	DocumentNumber string `gorm:"uniqueIndex" json:"documentNumber"`
}
