package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmsavelev/tripbooking/config"
	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client          *redis.Client
	availabilityTTL time.Duration
	dedupeTTL       time.Duration
}

func NewRedisCache(cfg config.RedisConfig, availabilityTTL, dedupeTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:          redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		availabilityTTL: availabilityTTL,
		dedupeTTL:       dedupeTTL,
	}
}

func (c *RedisCache) GetAvailability(ctx context.Context, kind string, id int64) (*domain.Availability, error) {
	data, err := c.client.Get(ctx, availabilityKey(kind, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var av domain.Availability
	if err := json.Unmarshal(data, &av); err != nil {
		return nil, err
	}
	return &av, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, kind string, id int64, av *domain.Availability) error {
	payload, err := json.Marshal(av)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(kind, id), payload, c.availabilityTTL).Err()
}

func (c *RedisCache) InvalidateAvailability(ctx context.Context, kind string, id int64) error {
	return c.client.Del(ctx, availabilityKey(kind, id)).Err()
}

// MarkCallbackSeen records a payment callback reference and reports whether
// this is the first delivery. Repeated deliveries within the dedupe TTL
// return false.
func (c *RedisCache) MarkCallbackSeen(ctx context.Context, reference string) (bool, error) {
	return c.client.SetNX(ctx, callbackKey(reference), "seen", c.dedupeTTL).Result()
}

// UnmarkCallbackSeen releases a dedupe claim so a redelivery of the same
// reference is processed again. Called when the status update behind a claim
// failed.
func (c *RedisCache) UnmarkCallbackSeen(ctx context.Context, reference string) error {
	return c.client.Del(ctx, callbackKey(reference)).Err()
}

func availabilityKey(kind string, id int64) string {
	return fmt.Sprintf("cache:availability:%s:%d", kind, id)
}

func callbackKey(reference string) string {
	return fmt.Sprintf("dedupe:payment:%s", reference)
}
