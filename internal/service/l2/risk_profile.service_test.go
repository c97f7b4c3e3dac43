package l2_service

import (
	"context"
	"testing"
	"time"

	"riskgraph/internal/calculator"
	"riskgraph/internal/domain"

	"github.com/stretchr/testify/require"
)

func testStats() *domain.ReturnStats {
	return &domain.ReturnStats{
		PeriodsPerYear: 365,
		Series: map[string]domain.ReturnSeries{
			"BTC": {Asset: "BTC", Returns: []float64{0.01, -0.02, 0.03, 0.01, 0.0, -0.01, 0.02}, AnnualizedVolatility: 0.6},
		},
		Covariance: domain.CovarianceMatrix{
			Assets: []string{"BTC"},
			Values: [][]float64{{0.36}},
		},
	}
}

func Test_riskProfileServiceHandler_Build(t *testing.T) {
	handler := NewRiskProfileService(calculator.DefaultEngineConfig(), nil)
	snapshot := domain.MarketSnapshot{
		Prices: map[string]float64{"BTC": 100000},
		AsOf:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	positions := []domain.Position{
		{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeSpot, Leverage: 1},
	}

	t.Run("without stats", func(t *testing.T) {
		profile := handler.Build(context.Background(), positions, snapshot, nil)
		require.NoError(t, profile.DeltaErr)
		require.Equal(t, 1.0, profile.Delta.DeltaNormalized)
		require.Nil(t, profile.Stats)
		require.NoError(t, profile.StatsErr)
	})

	t.Run("with stats", func(t *testing.T) {
		stats := testStats()
		profile := handler.Build(context.Background(), positions, snapshot, stats)
		require.NoError(t, profile.StatsErr)
		require.Equal(t, stats, profile.Stats)
		require.InDelta(t, 0.6, profile.PortfolioVolatility, 1e-12)

		expected, err := calculator.PortfolioSharpe(*stats, profile.Exposures)
		require.NoError(t, err)
		require.Equal(t, expected, profile.SharpeRatio)
	})

	t.Run("asset missing from covariance", func(t *testing.T) {
		withEth := append(positions, domain.Position{Asset: "ETH", Quantity: 1, PositionType: domain.PositionTypeSpot, Leverage: 1})
		snapshot := domain.MarketSnapshot{Prices: map[string]float64{"BTC": 100000, "ETH": 3000}}
		profile := handler.Build(context.Background(), withEth, snapshot, testStats())
		require.Error(t, profile.StatsErr)
		require.Nil(t, profile.Stats)
		require.NotNil(t, profile.Delta)
	})

	t.Run("missing price", func(t *testing.T) {
		profile := handler.Build(context.Background(), positions, domain.MarketSnapshot{}, testStats())
		require.Error(t, profile.DeltaErr)
		require.Equal(t, domain.ErrorKindPriceUnavailable, domain.KindOf(profile.DeltaErr))
		require.Error(t, profile.StatsErr)
	})
}
