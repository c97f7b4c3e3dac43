package repository

import (
	"context"
	"testing"
	"time"

	"riskgraph/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStatsCache(t *testing.T) {
	client := &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
	cache := NewRedisStatsCacheRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		got, err := cache.Get(ctx, "nope")
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("round trip", func(t *testing.T) {
		stats := domain.ReturnStats{
			LookbackDays:   30,
			Observations:   29,
			PeriodsPerYear: 365,
			Series: map[string]domain.ReturnSeries{
				"BTC": {Asset: "BTC", Returns: []float64{0.01, -0.02}, AnnualizedVolatility: 0.5},
			},
			Covariance: domain.CovarianceMatrix{Assets: []string{"BTC"}, Values: [][]float64{{0.25}}},
		}
		require.NoError(t, cache.Set(ctx, "k", stats))
		require.Equal(t, time.Hour, client.ttls["k"])

		got, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(stats, *got))
	})

	t.Run("corrupt entry", func(t *testing.T) {
		client.values["bad"] = "{"
		_, err := cache.Get(ctx, "bad")
		require.Error(t, err)
	})
}

func TestStatsCacheKey(t *testing.T) {
	asOf := time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)
	require.Equal(t,
		StatsCacheKey([]string{"ETH", "BTC"}, 30, asOf),
		StatsCacheKey([]string{"BTC", "ETH"}, 30, asOf),
	)
	require.Equal(t, "riskgraph:stats:BTC,ETH:30:2025-03-04", StatsCacheKey([]string{"ETH", "BTC"}, 30, asOf))
	require.NotEqual(t,
		StatsCacheKey([]string{"BTC"}, 30, asOf),
		StatsCacheKey([]string{"BTC"}, 31, asOf),
	)
}
