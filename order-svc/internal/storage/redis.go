package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a read-through cache of catalog items keyed by item number.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) ItemKey(code int) string {
	return "catalog:item:" + strconv.Itoa(code)
}

func (c *RedisCache) GetByCode(ctx context.Context, code int) (*domain.Item, bool, error) {
	raw, err := c.Client.Get(ctx, c.ItemKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var item domain.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, false, err
	}
	return &item, true, nil
}

func (c *RedisCache) SetByCode(ctx context.Context, item domain.Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.ItemKey(item.Code), payload, c.TTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, code int) error {
	return c.Client.Del(ctx, c.ItemKey(code)).Err()
}
