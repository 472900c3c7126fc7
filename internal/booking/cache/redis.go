package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/booking"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "availability:"
	genPrefix = "availability-gen:"

	// generationTTL outlives any cached entry so a generation never resets
	// while entries computed against it can still be written.
	generationTTL = 24 * time.Hour
)

// NewRedisClient connects to cfg.Addr and pings it. It returns nil when Redis
// is not configured or unreachable; callers then use booking.NoopCache.
func NewRedisClient(cfg internal.RedisConfig, logger *slog.Logger) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, availability cache disabled", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Availability keeps one hash per booking date. Each field holds the JSON
// availability of one floor and slot.
type Availability struct {
	client redis.UniversalClient
}

func NewAvailability(client redis.UniversalClient) *Availability {
	return &Availability{client: client}
}

// New returns a Redis backed cache when client is non-nil, else a no-op cache.
func New(client *redis.Client) booking.AvailabilityCache {
	if client == nil {
		return booking.NoopCache{}
	}
	return NewAvailability(client)
}

func DateKey(date string) string {
	return keyPrefix + date
}

// GenerationKey holds the invalidation counter of date.
func GenerationKey(date string) string {
	return genPrefix + date
}

func (c *Availability) Get(ctx context.Context, date, key string) ([]booking.SpaceAvailability, int64, bool, error) {
	pipe := c.client.Pipeline()
	entry := pipe.HGet(ctx, DateKey(date), key)
	genCmd := pipe.Get(ctx, GenerationKey(date))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	gen, err := genCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}
	raw, err := entry.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var entries []booking.SpaceAvailability
	if err := json.Unmarshal(raw, &entries); err != nil {
		// unreadable entry, treat as a miss
		return nil, gen, false, nil
	}
	return entries, gen, true, nil
}

// Set writes entries only while date is still at generation gen. The
// generation key is watched so an invalidation racing the write aborts it.
func (c *Availability) Set(ctx context.Context, date, key string, gen int64, entries []booking.SpaceAvailability, ttl time.Duration) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	genKey := GenerationKey(date)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, DateKey(date), key, raw)
			if ttl > 0 {
				pipe.Expire(ctx, DateKey(date), ttl)
			}
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *Availability) InvalidateDates(ctx context.Context, dates ...string) error {
	if len(dates) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			pipe.Del(ctx, DateKey(d))
			pipe.Incr(ctx, GenerationKey(d))
			pipe.Expire(ctx, GenerationKey(d), generationTTL)
		}
		return nil
	})
	return err
}
