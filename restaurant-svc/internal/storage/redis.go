package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tablebite/restaurant-svc/internal/domain"
)

type RedisCache struct {
	Client         *redis.Client
	TenantTTL      time.Duration
	IdempotencyTTL time.Duration
}

func NewRedisCache(client *redis.Client, tenantTTL, idempotencyTTL time.Duration) *RedisCache {
	return &RedisCache{Client: client, TenantTTL: tenantTTL, IdempotencyTTL: idempotencyTTL}
}

func (c *RedisCache) TenantKey(host string) string {
	return "tenant:" + host
}

func (c *RedisCache) IdempotencyKey(ownerID int64, key string) string {
	return "idempotency:" + strconv.FormatInt(ownerID, 10) + ":" + key
}

func (c *RedisCache) GetTenant(ctx context.Context, host string) (*domain.Tenant, error) {
	raw, err := c.Client.Get(ctx, c.TenantKey(host)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tenant domain.Tenant
	if err := json.Unmarshal(raw, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *RedisCache) SetTenant(ctx context.Context, host string, tenant domain.Tenant) error {
	payload, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.TenantKey(host), payload, c.TenantTTL).Err()
}

func (c *RedisCache) InvalidateTenant(ctx context.Context, host string) error {
	return c.Client.Del(ctx, c.TenantKey(host)).Err()
}

// Claim sets the idempotency marker and reports whether this call set it.
func (c *RedisCache) Claim(ctx context.Context, ownerID int64, key string) (bool, error) {
	return c.Client.SetNX(ctx, c.IdempotencyKey(ownerID, key), "1", c.IdempotencyTTL).Result()
}

func (c *RedisCache) Release(ctx context.Context, ownerID int64, key string) error {
	return c.Client.Del(ctx, c.IdempotencyKey(ownerID, key)).Err()
}
