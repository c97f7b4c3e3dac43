package calculator

import (
	"testing"

	"riskgraph/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestCalculateAlerts(t *testing.T) {
	cfg := DefaultEngineConfig().Alerts

	t.Run("perfect book", func(t *testing.T) {
		in := AlertInputs{
			Positions: []domain.Position{
				{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeSpot, Leverage: 1},
			},
			Snapshot:            btcSnapshot(100000),
			Delta:               domain.DeltaGauge{DeltaNormalized: 0},
			PortfolioVolatility: 0.1,
			SharpeRatio:         3,
		}
		got, err := CalculateAlerts(in, cfg)
		require.NoError(t, err)
		require.Equal(t, 100.0, got.HealthScore)
		require.Equal(t, domain.HealthStatusExcellent, got.HealthComponents.Leverage.Status)
		require.Nil(t, got.LiquidationRisk.OverallRisk)
		require.Empty(t, got.LiquidationRisk.Positions)
		require.False(t, got.RebalancingSignal.Needed)
	})

	t.Run("halfway on every component", func(t *testing.T) {
		in := AlertInputs{
			Positions: []domain.Position{
				{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeFuturesLong, EntryPrice: 100000, Leverage: 5.5},
			},
			Snapshot:            btcSnapshot(100000),
			Delta:               domain.DeltaGauge{DeltaRaw: 25000, DeltaNormalized: 0.25},
			PortfolioVolatility: 0.6,
			SharpeRatio:         1,
		}
		got, err := CalculateAlerts(in, cfg)
		require.NoError(t, err)

		half := domain.ComponentScore{Score: 12.5, Status: domain.HealthStatusFair}
		require.Equal(t, "", cmp.Diff(
			domain.HealthComponents{
				DeltaNeutral: half,
				Volatility:   half,
				SharpeRatio:  half,
				Leverage:     half,
			},
			got.HealthComponents,
			cmpopts.EquateApprox(0, 1e-9),
		))
		require.InDelta(t, 50, got.HealthScore, 1e-9)
		require.Equal(t, domain.RebalanceUrgencyHigh, got.RebalancingSignal.Urgency)
	})

	t.Run("health score stays in range", func(t *testing.T) {
		inputs := []AlertInputs{
			{Delta: domain.DeltaGauge{DeltaNormalized: -4}, PortfolioVolatility: 5, SharpeRatio: -3},
			{Delta: domain.DeltaGauge{DeltaNormalized: 0.01}, PortfolioVolatility: 0, SharpeRatio: 100},
			{Delta: domain.DeltaGauge{DeltaNormalized: 0.4}, PortfolioVolatility: 0.3, SharpeRatio: 0.2},
		}
		for _, in := range inputs {
			got, err := CalculateAlerts(in, cfg)
			require.NoError(t, err)
			require.GreaterOrEqual(t, got.HealthScore, 0.0)
			require.LessOrEqual(t, got.HealthScore, 100.0)
			c := got.HealthComponents
			for _, s := range []float64{c.DeltaNeutral.Score, c.Volatility.Score, c.SharpeRatio.Score, c.Leverage.Score} {
				require.GreaterOrEqual(t, s, 0.0)
				require.LessOrEqual(t, s, ComponentMaxScore)
			}
			require.Equal(t, c.Total(), got.HealthScore)
		}
	})
}

func TestCalculateLiquidationRisk(t *testing.T) {
	cfg := DefaultEngineConfig().Alerts
	positions := []domain.Position{
		{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeSpot, Leverage: 1},
		{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeFuturesLong, EntryPrice: 100, Leverage: 2},
		{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeFuturesShort, EntryPrice: 100, Leverage: 3},
		// unleveraged futures can't be liquidated
		{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeFuturesShort, EntryPrice: 100, Leverage: 1},
	}

	t.Run("levels per position", func(t *testing.T) {
		got, err := CalculateLiquidationRisk(positions, btcSnapshot(100), cfg)
		require.NoError(t, err)
		require.Len(t, got.Positions, 2)

		require.InDelta(t, 50.5, got.Positions[0].LiquidationPrice, 1e-9)
		require.InDelta(t, 49.5, got.Positions[0].PriceDistancePct, 1e-9)
		require.Equal(t, domain.RiskLevelSafe, got.Positions[0].RiskLevel)

		require.InDelta(t, 100*(1+1.0/3-0.005), got.Positions[1].LiquidationPrice, 1e-9)
		require.Equal(t, domain.RiskLevelModerate, got.Positions[1].RiskLevel)

		require.NotNil(t, got.OverallRisk)
		require.Equal(t, domain.RiskLevelModerate, *got.OverallRisk)
	})

	t.Run("worst level wins", func(t *testing.T) {
		risky := append(positions, domain.Position{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeFuturesLong, EntryPrice: 100, Leverage: 10})
		got, err := CalculateLiquidationRisk(risky, btcSnapshot(100), cfg)
		require.NoError(t, err)
		require.InDelta(t, 90.5, got.Positions[2].LiquidationPrice, 1e-9)
		require.Equal(t, domain.RiskLevelHigh, got.Positions[2].RiskLevel)
		require.Equal(t, domain.RiskLevelHigh, *got.OverallRisk)
	})

	t.Run("missing price", func(t *testing.T) {
		_, err := CalculateLiquidationRisk(positions, domain.MarketSnapshot{}, cfg)
		require.Error(t, err)
	})
}

func TestRebalancingSignalFor(t *testing.T) {
	cfg := DefaultEngineConfig().Alerts
	cases := []struct {
		delta   float64
		needed  bool
		urgency domain.RebalanceUrgency
	}{
		{0.05, false, domain.RebalanceUrgencyNone},
		{0.1, false, domain.RebalanceUrgencyNone},
		{0.15, true, domain.RebalanceUrgencyMedium},
		{-0.2, true, domain.RebalanceUrgencyMedium},
		{0.3, true, domain.RebalanceUrgencyHigh},
		{-0.9, true, domain.RebalanceUrgencyHigh},
	}
	for _, c := range cases {
		got := RebalancingSignalFor(domain.DeltaGauge{DeltaRaw: c.delta * 1000, DeltaNormalized: c.delta}, cfg)
		require.Equal(t, c.needed, got.Needed, "delta %v", c.delta)
		require.Equal(t, c.urgency, got.Urgency, "delta %v", c.delta)
		require.Equal(t, c.delta*1000, got.CurrentDelta)
	}
}

func TestMaxFuturesLeverage(t *testing.T) {
	require.Equal(t, 1.0, MaxFuturesLeverage(nil))
	require.Equal(t, 3.0, MaxFuturesLeverage(hedgedBook()))
}
