package calculator

import (
	"testing"
	"time"

	"riskgraph/internal/domain"

	"github.com/stretchr/testify/require"
)

func btcSnapshot(price float64) domain.MarketSnapshot {
	return domain.MarketSnapshot{
		Prices: map[string]float64{"BTC": price},
	}
}

func hedgedBook() []domain.Position {
	return []domain.Position{
		{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeSpot, EntryPrice: 100000, Leverage: 1},
		{Asset: "BTC", Quantity: 0.95, PositionType: domain.PositionTypeFuturesShort, EntryPrice: 95500, Leverage: 3},
	}
}

type fixedAccrual float64

func (f fixedAccrual) Multiplier(domain.Position, time.Time) float64 {
	return float64(f)
}

func TestValuationModel_Value(t *testing.T) {
	model := NewValuationModel(ExposureNotional, nil, time.Time{})

	t.Run("spot", func(t *testing.T) {
		v, err := model.Value(domain.Position{Asset: "BTC", Quantity: 2, PositionType: domain.PositionTypeSpot, Leverage: 1}, 50000)
		require.NoError(t, err)
		require.Equal(t, PositionValuation{Value: 100000, DeltaUnits: 2}, v)
	})

	t.Run("futures long at entry is worth its collateral", func(t *testing.T) {
		p := domain.Position{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeFuturesLong, EntryPrice: 90000, Leverage: 3}
		v, err := model.Value(p, 90000)
		require.NoError(t, err)
		require.InDelta(t, 30000, v.Value, 1e-6)
		require.Equal(t, 1.0, v.DeltaUnits)

		v, err = model.Value(p, 99000)
		require.NoError(t, err)
		require.InDelta(t, 39000, v.Value, 1e-6)
	})

	t.Run("futures short loses as price rises", func(t *testing.T) {
		p := hedgedBook()[1]
		v, err := model.Value(p, 100000)
		require.NoError(t, err)
		require.InDelta(t, 0.95*95500/3-0.95*4500, v.Value, 1e-6)
		require.Equal(t, -0.95, v.DeltaUnits)
	})

	t.Run("margin convention scales exposure by leverage", func(t *testing.T) {
		margin := NewValuationModel(ExposureMargin, nil, time.Time{})
		p := hedgedBook()[1]
		v, err := margin.Value(p, 100000)
		require.NoError(t, err)
		require.InDelta(t, -2.85, v.DeltaUnits, 1e-12)
		require.InDelta(t, 0.95*95500-2.85*4500, v.Value, 1e-6)
	})

	t.Run("lending supply and borrow use the accrual multiplier", func(t *testing.T) {
		accrued := NewValuationModel(ExposureNotional, fixedAccrual(1.1), time.Time{})
		supply := domain.Position{Asset: "ETH", Quantity: 2, PositionType: domain.PositionTypeLendingSupply, Leverage: 1}
		v, err := accrued.Value(supply, 3000)
		require.NoError(t, err)
		require.InDelta(t, 6600, v.Value, 1e-9)
		require.Equal(t, 2.0, v.DeltaUnits)

		borrow := supply
		borrow.PositionType = domain.PositionTypeLendingBorrow
		v, err = accrued.Value(borrow, 3000)
		require.NoError(t, err)
		require.InDelta(t, -6600, v.Value, 1e-9)
		require.Equal(t, -2.0, v.DeltaUnits)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		_, err := model.Value(domain.Position{Asset: "BTC", Quantity: 1, PositionType: domain.PositionTypeSpot}, 0)
		require.Error(t, err)
		require.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})

	t.Run("unknown position type", func(t *testing.T) {
		_, err := model.Value(domain.Position{Asset: "BTC", Quantity: 1, PositionType: "option"}, 1)
		require.Error(t, err)
	})
}

func TestValuationModel_PortfolioValue(t *testing.T) {
	model := NewValuationModel("", nil, time.Time{})

	t.Run("sums positions", func(t *testing.T) {
		value, err := model.PortfolioValue(hedgedBook(), btcSnapshot(100000))
		require.NoError(t, err)
		require.InDelta(t, 100000+0.95*95500/3-0.95*4500, value, 1e-6)
	})

	t.Run("missing price", func(t *testing.T) {
		_, err := model.PortfolioValue(hedgedBook(), domain.MarketSnapshot{Prices: map[string]float64{}})
		require.Error(t, err)
		require.Equal(t, domain.ErrorKindPriceUnavailable, domain.KindOf(err))
	})
}
