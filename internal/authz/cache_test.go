package authz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGrants is an in-memory GrantReader that records how often the
// underlying store is consulted.
type countingGrants struct {
	allowed map[string]bool
	calls   int
}

func (g *countingGrants) IsAdminRole(roleID uint) bool { return roleID == adminRoleID }

func (g *countingGrants) HasPermission(_ context.Context, roleID uint, module, permission string) bool {
	g.calls++
	return g.allowed[fmt.Sprintf("%d:%s:%s", roleID, module, permission)]
}

func (g *countingGrants) PermissionsForRole(_ context.Context, roleID uint) map[string][]string {
	g.calls++
	return map[string][]string{}
}

func newCacheFixture(t *testing.T, ttl time.Duration) (*CachedGrants, *countingGrants, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingGrants{allowed: map[string]bool{
		"2:reservations:create": true,
	}}
	return NewCachedGrants(inner, client, ttl), inner, mr
}

func TestCachedGrantsServesFromCache(t *testing.T) {
	cache, inner, _ := newCacheFixture(t, time.Minute)
	ctx := context.Background()

	assert.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	assert.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	assert.Equal(t, 1, inner.calls)

	// Negative decisions are cached too.
	assert.False(t, cache.HasPermission(ctx, 2, "users", "create"))
	assert.False(t, cache.HasPermission(ctx, 2, "users", "create"))
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGrantsExpiresAfterTTL(t *testing.T) {
	cache, inner, mr := newCacheFixture(t, time.Minute)
	ctx := context.Background()

	require.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	mr.FastForward(2 * time.Minute)

	require.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGrantsAdminNeverTouchesStore(t *testing.T) {
	cache, inner, _ := newCacheFixture(t, time.Minute)

	assert.True(t, cache.HasPermission(context.Background(), adminRoleID, "anything", "delete"))
	assert.Equal(t, 0, inner.calls)
}

func TestCachedGrantsInvalidateDropsRole(t *testing.T) {
	cache, inner, _ := newCacheFixture(t, time.Minute)
	ctx := context.Background()

	require.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	require.NoError(t, cache.Invalidate(ctx, 2))

	require.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGrantsFallsThroughWhenRedisDown(t *testing.T) {
	cache, inner, mr := newCacheFixture(t, time.Minute)
	mr.Close()

	ctx := context.Background()
	assert.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	assert.True(t, cache.HasPermission(ctx, 2, "reservations", "create"))
	// No cache available: the store answers every time.
	assert.Equal(t, 2, inner.calls)
}
