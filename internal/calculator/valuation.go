package calculator

import (
	"fmt"
	"math"
	"time"

	"riskgraph/internal/domain"
)

// ExposureConvention decides how a futures quantity maps to exposure
type ExposureConvention string

const (
	// quantity is the contract size; leverage only sizes the collateral
	ExposureNotional ExposureConvention = "notional"
	// quantity is collateral units; exposure is quantity * leverage
	ExposureMargin ExposureConvention = "margin"
)

// AccrualModel supplies the current value of one unit of lent or borrowed
// principal. Interest accrual itself lives outside the engine
type AccrualModel interface {
	Multiplier(p domain.Position, asOf time.Time) float64
}

type NoAccrual struct{}

func (NoAccrual) Multiplier(domain.Position, time.Time) float64 {
	return 1
}

type PositionValuation struct {
	Value      float64
	DeltaUnits float64
}

type ValuationModel struct {
	Convention ExposureConvention
	Accrual    AccrualModel
	AsOf       time.Time
}

func NewValuationModel(convention ExposureConvention, accrual AccrualModel, asOf time.Time) ValuationModel {
	if accrual == nil {
		accrual = NoAccrual{}
	}
	if convention == "" {
		convention = ExposureNotional
	}
	return ValuationModel{
		Convention: convention,
		Accrual:    accrual,
		AsOf:       asOf,
	}
}

// Value marks p to market at price and returns its delta units. This is
// the only place the sign of a position is resolved
func (m ValuationModel) Value(p domain.Position, price float64) (PositionValuation, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return PositionValuation{}, domain.ValidationError{
			Field:  "price",
			Reason: fmt.Sprintf("price for %s must be > 0, got %v", p.Asset, price),
		}
	}

	switch p.PositionType {
	case domain.PositionTypeSpot:
		return PositionValuation{
			Value:      p.Quantity * price,
			DeltaUnits: p.Quantity,
		}, nil

	case domain.PositionTypeFuturesLong, domain.PositionTypeFuturesShort:
		sign := 1.0
		if p.PositionType == domain.PositionTypeFuturesShort {
			sign = -1
		}
		leverage := max(p.Leverage, 1)
		units := m.exposureUnits(p)
		collateral := units * p.EntryPrice / leverage
		return PositionValuation{
			Value:      collateral + sign*units*(price-p.EntryPrice),
			DeltaUnits: sign * units,
		}, nil

	case domain.PositionTypeLendingSupply:
		multiplier := m.accrual().Multiplier(p, m.AsOf)
		return PositionValuation{
			Value:      multiplier * p.Quantity * price,
			DeltaUnits: p.Quantity,
		}, nil

	case domain.PositionTypeLendingBorrow:
		multiplier := m.accrual().Multiplier(p, m.AsOf)
		return PositionValuation{
			Value:      -multiplier * p.Quantity * price,
			DeltaUnits: -p.Quantity,
		}, nil
	}

	return PositionValuation{}, domain.ValidationError{
		Field:  "position_type",
		Reason: fmt.Sprintf("unknown position type %q", p.PositionType),
	}
}

func (m ValuationModel) exposureUnits(p domain.Position) float64 {
	units := math.Abs(p.Quantity)
	if m.Convention == ExposureMargin {
		units *= max(p.Leverage, 1)
	}
	return units
}

func (m ValuationModel) accrual() AccrualModel {
	if m.Accrual == nil {
		return NoAccrual{}
	}
	return m.Accrual
}

// ValueAt values p against the snapshot price of its asset
func (m ValuationModel) ValueAt(p domain.Position, snapshot domain.MarketSnapshot) (PositionValuation, error) {
	price, err := snapshot.Price(p.Asset)
	if err != nil {
		return PositionValuation{}, err
	}
	return m.Value(p, price)
}

func (m ValuationModel) PortfolioValue(positions []domain.Position, snapshot domain.MarketSnapshot) (float64, error) {
	total := 0.0
	for _, p := range positions {
		v, err := m.ValueAt(p, snapshot)
		if err != nil {
			return 0, fmt.Errorf("failed to value %s %s: %w", p.PositionType, p.Asset, err)
		}
		total += v.Value
	}
	return total, nil
}
