package calculator

import (
	"fmt"
	"math"

	"riskgraph/internal/domain"
)

// CalculateSensitivity values the book under a uniform market-wide shock
// for every point of grid. Cross-asset divergence is not modelled
func CalculateSensitivity(
	positions []domain.Position,
	snapshot domain.MarketSnapshot,
	model ValuationModel,
	grid []float64,
) (*domain.SensitivityGraph, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("empty shock grid")
	}

	baseValue, err := model.PortfolioValue(positions, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to compute unshocked value: %w", err)
	}

	out := &domain.SensitivityGraph{
		DataPoints:      make([]domain.SensitivityPoint, 0, len(grid)),
		CurrentPosition: -1,
	}
	minValue, maxValue := math.Inf(1), math.Inf(-1)

	for i, shock := range grid {
		value := baseValue
		if shock != 0 {
			value, err = model.PortfolioValue(positions, snapshot.Shocked(shock))
			if err != nil {
				return nil, fmt.Errorf("failed to value portfolio at %v%% shock: %w", shock, err)
			}
		} else if out.CurrentPosition < 0 {
			out.CurrentPosition = i
		}

		out.DataPoints = append(out.DataPoints, domain.SensitivityPoint{
			X:         shock,
			Y:         finite(value),
			ReturnPct: shock,
			PnL:       finite(value - baseValue),
		})
		minValue = math.Min(minValue, value)
		maxValue = math.Max(maxValue, value)
	}

	if out.CurrentPosition < 0 {
		return nil, fmt.Errorf("shock grid is missing the 0%% point")
	}

	out.ValueRange = domain.ValueRange{
		Min:     finite(minValue),
		Max:     finite(maxValue),
		Current: finite(baseValue),
	}
	return out, nil
}
