package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedGrants decorates a GrantReader with a short-TTL Redis cache keyed by
// (role, module, permission). Grant changes become visible within one TTL
// window; correctness does not depend on the cache, so every Redis failure
// falls through to the underlying store.
type CachedGrants struct {
	inner  GrantReader
	client *redis.Client
	ttl    time.Duration
}

func NewCachedGrants(inner GrantReader, client *redis.Client, ttl time.Duration) *CachedGrants {
	return &CachedGrants{inner: inner, client: client, ttl: ttl}
}

func (c *CachedGrants) IsAdminRole(roleID uint) bool {
	return c.inner.IsAdminRole(roleID)
}

func (c *CachedGrants) HasPermission(ctx context.Context, roleID uint, module, permission string) bool {
	if c.inner.IsAdminRole(roleID) {
		return true
	}

	key := c.key(roleID, module, permission)
	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		return cached == "1"
	}

	allowed := c.inner.HasPermission(ctx, roleID, module, permission)

	value := "0"
	if allowed {
		value = "1"
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Warn("grant cache write failed for %s: %v", key, err)
	}

	return allowed
}

// PermissionsForRole is a catalog listing, not a hot-path check; it always
// reads through.
func (c *CachedGrants) PermissionsForRole(ctx context.Context, roleID uint) map[string][]string {
	return c.inner.PermissionsForRole(ctx, roleID)
}

// Invalidate drops every cached decision for a role. Call after mutating the
// role's grants.
func (c *CachedGrants) Invalidate(ctx context.Context, roleID uint) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("grants:%d:*", roleID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *CachedGrants) key(roleID uint, module, permission string) string {
	return fmt.Sprintf("grants:%d:%s:%s", roleID, module, permission)
}
