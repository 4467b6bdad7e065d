package authz

// Principal is the authenticated caller, materialized from a verified
// credential on every request. It is never persisted.
type Principal struct {
	UserID   uint   `json:"userId"`
	Name     string `json:"name"`
	RoleID   uint   `json:"roleId"`
	RoleName string `json:"roleName"`

	// OwnerID is the caller's owner-record id, resolved once at verification
	// time for users holding the owner role. Zero when the caller has no
	// owner record.
	OwnerID uint `json:"ownerId,omitempty"`
}
