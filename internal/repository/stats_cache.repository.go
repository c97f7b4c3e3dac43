package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"riskgraph/internal/domain"

	"github.com/redis/go-redis/v9"
)

// StatsCacheRepository stores computed return statistics so repeated
// requests over the same assets and window skip the history fetch
type StatsCacheRepository interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, key string) (*domain.ReturnStats, error)
	Set(ctx context.Context, key string, stats domain.ReturnStats) error
}

// StatsCacheKey is order-insensitive in assets and changes every UTC day
func StatsCacheKey(assets []string, lookbackDays int, asOf time.Time) string {
	sorted := append([]string{}, assets...)
	sort.Strings(sorted)
	return fmt.Sprintf("riskgraph:stats:%s:%d:%s", strings.Join(sorted, ","), lookbackDays, asOf.UTC().Format(csvDateLayout))
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func NewRedisStatsCacheRepository(client redisClient, ttl time.Duration) StatsCacheRepository {
	return redisStatsCacheHandler{
		Client:  client,
		Ttl:     ttl,
		Timeout: 500 * time.Millisecond,
	}
}

type redisStatsCacheHandler struct {
	Client  redisClient
	Ttl     time.Duration
	Timeout time.Duration
}

func (h redisStatsCacheHandler) Get(ctx context.Context, key string) (*domain.ReturnStats, error) {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	raw, err := h.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}

	out := domain.ReturnStats{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats %s: %w", key, err)
	}
	return &out, nil
}

func (h redisStatsCacheHandler) Set(ctx context.Context, key string, stats domain.ReturnStats) error {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := h.Client.Set(ctx, key, raw, h.Ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// NewNoopStatsCacheRepository is used when no redis address is configured
func NewNoopStatsCacheRepository() StatsCacheRepository {
	return noopStatsCacheHandler{}
}

type noopStatsCacheHandler struct{}

func (noopStatsCacheHandler) Get(context.Context, string) (*domain.ReturnStats, error) {
	return nil, nil
}

func (noopStatsCacheHandler) Set(context.Context, string, domain.ReturnStats) error {
	return nil
}
