package calculator

import (
	"fmt"
	"math"

	"riskgraph/internal/domain"
)

// CalculateDelta computes dollar delta and normalizes it by gross value, so
// offsetting legs don't shrink the denominator towards zero
func CalculateDelta(
	positions []domain.Position,
	snapshot domain.MarketSnapshot,
	model ValuationModel,
	cfg DeltaConfig,
) (*domain.DeltaGauge, error) {
	deltaRaw := 0.0
	grossValue := 0.0
	for _, p := range positions {
		price, err := snapshot.Price(p.Asset)
		if err != nil {
			return nil, err
		}
		v, err := model.Value(p, price)
		if err != nil {
			return nil, fmt.Errorf("failed to value %s %s: %w", p.PositionType, p.Asset, err)
		}
		deltaRaw += v.DeltaUnits * price
		grossValue += math.Abs(v.Value)
	}

	normalized := 0.0
	if grossValue > 0 {
		normalized = deltaRaw / grossValue
	}
	normalized = finite(normalized)

	return &domain.DeltaGauge{
		DeltaRaw:               finite(deltaRaw),
		DeltaNormalized:        normalized,
		Status:                 ClassifyDelta(normalized, cfg),
		PortfolioValue:         finite(grossValue),
		DirectionalExposurePct: normalized * 100,
	}, nil
}

func ClassifyDelta(normalized float64, cfg DeltaConfig) domain.DeltaStatus {
	switch {
	case normalized > cfg.HighBand:
		return domain.DeltaStatusHighLong
	case normalized > cfg.NeutralBand:
		return domain.DeltaStatusSlightLong
	case normalized < -cfg.HighBand:
		return domain.DeltaStatusHighShort
	case normalized < -cfg.NeutralBand:
		return domain.DeltaStatusSlightShort
	default:
		return domain.DeltaStatusNeutral
	}
}
