package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*OwnershipResolver, *GrantStore) {
	t.Helper()
	db := newTestDB(t)
	seedGrantGraph(t, db)
	seedOwnership(t, db)
	store := NewGrantStore(db, adminRoleID)
	return NewOwnershipResolver(db, store), store
}

func principalFor(userID, roleID uint) Principal {
	return Principal{UserID: userID, RoleID: roleID}
}

func TestOwnsPetScenario(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	assert.True(t, resolver.Owns(ctx, principalFor(10, 2), CategoryPet, 7))
	assert.False(t, resolver.Owns(ctx, principalFor(11, 2), CategoryPet, 7))
	assert.True(t, resolver.Owns(ctx, principalFor(12, adminRoleID), CategoryPet, 7))
}

func TestOwnsApartmentIsolation(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	assert.True(t, resolver.Owns(ctx, principalFor(10, 2), CategoryApartment, 5))
	assert.False(t, resolver.Owns(ctx, principalFor(11, 2), CategoryApartment, 5))
}

func TestOwnsTenantThroughApartment(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	// Tenant 4 lives in apartment 5, owned (via owner 3) by user 10.
	assert.True(t, resolver.Owns(ctx, principalFor(10, 2), CategoryTenant, 4))
	assert.False(t, resolver.Owns(ctx, principalFor(11, 2), CategoryTenant, 4))
}

func TestOwnsProfileIsSelfOnly(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	assert.True(t, resolver.Owns(ctx, principalFor(10, 2), CategoryProfile, 10))
	assert.False(t, resolver.Owns(ctx, principalFor(10, 2), CategoryProfile, 11))
	assert.True(t, resolver.Owns(ctx, principalFor(12, adminRoleID), CategoryProfile, 10))
}

func TestOwnsUnknownCategoryDenies(t *testing.T) {
	resolver, _ := newTestResolver(t)

	assert.False(t, resolver.Owns(context.Background(), principalFor(10, 2), "not-a-real-category", 7))
}

func TestOwnsMissingResourceDenies(t *testing.T) {
	resolver, _ := newTestResolver(t)

	assert.False(t, resolver.Owns(context.Background(), principalFor(10, 2), CategoryPet, 9999))
}

func TestOwnsFailsClosedOnStoreError(t *testing.T) {
	db := newTestDB(t)
	seedGrantGraph(t, db)
	seedOwnership(t, db)
	store := NewGrantStore(db, adminRoleID)
	resolver := NewOwnershipResolver(db, store)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.False(t, resolver.Owns(context.Background(), principalFor(10, 2), CategoryPet, 7))
	// Admin bypass does not touch the store.
	assert.True(t, resolver.Owns(context.Background(), principalFor(12, adminRoleID), CategoryPet, 7))
}
