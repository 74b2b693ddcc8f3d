package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voltspot/internal/pkg/config"
	"voltspot/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// SlotCache keeps one serialized day of slots per charger. The TTL is short:
// a day goes stale the moment a booking lands, and admission re-checks under
// the row lock anyway.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSlotCache(rdb *redis.Client, cfg config.RedisConfig) *SlotCache {
	return &SlotCache{rdb: rdb, ttl: cfg.SlotTTL}
}

var _ queries.SlotCache = (*SlotCache)(nil)

func slotKey(chargerID uuid.UUID, day string) string {
	return "slots:" + chargerID.String() + ":" + day
}

func (c *SlotCache) GetDay(ctx context.Context, chargerID uuid.UUID, day string) ([]queries.SlotView, error) {
	data, err := c.rdb.Get(ctx, slotKey(chargerID, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot cache: %w", err)
	}

	var slots []queries.SlotView
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode cached slots: %w", err)
	}
	return slots, nil
}

func (c *SlotCache) SetDay(ctx context.Context, chargerID uuid.UUID, day string, slots []queries.SlotView) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to encode slots: %w", err)
	}
	if err := c.rdb.Set(ctx, slotKey(chargerID, day), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write slot cache: %w", err)
	}
	return nil
}
