package calculator

import (
	"math"

	"riskgraph/internal/domain"
)

// linearDecay is full at x <= start, 0 at x >= end and linear between
func linearDecay(x, start, end, full float64) float64 {
	if x <= start {
		return full
	}
	if x >= end {
		return 0
	}
	return full * (end - x) / (end - start)
}

// linearRise is 0 at x <= start, full at x >= end and linear between
func linearRise(x, start, end, full float64) float64 {
	return full - linearDecay(x, start, end, full)
}

func statusFor(score float64, bands StatusBands) domain.HealthStatus {
	switch {
	case score >= bands.Excellent:
		return domain.HealthStatusExcellent
	case score >= bands.Good:
		return domain.HealthStatusGood
	case score >= bands.Fair:
		return domain.HealthStatusFair
	case score >= bands.Warning:
		return domain.HealthStatusWarning
	default:
		return domain.HealthStatusPoor
	}
}

func component(score float64, bands StatusBands) domain.ComponentScore {
	score = clamp(finite(score), 0, ComponentMaxScore)
	return domain.ComponentScore{
		Score:  score,
		Status: statusFor(score, bands),
	}
}

func DeltaNeutralScore(deltaNormalized float64, cfg AlertConfig) domain.ComponentScore {
	return component(linearDecay(math.Abs(deltaNormalized), 0, cfg.DeltaZeroScoreAt, ComponentMaxScore), cfg.StatusBands)
}

func VolatilityScore(annualizedVol float64, cfg AlertConfig) domain.ComponentScore {
	return component(linearDecay(annualizedVol, cfg.VolatilityLow, cfg.VolatilityHigh, ComponentMaxScore), cfg.StatusBands)
}

func SharpeScore(sharpe float64, cfg AlertConfig) domain.ComponentScore {
	return component(linearRise(sharpe, 0, cfg.SharpeFullScoreAt, ComponentMaxScore), cfg.StatusBands)
}

func LeverageScore(maxLeverage float64, cfg AlertConfig) domain.ComponentScore {
	return component(linearDecay(maxLeverage, 1, cfg.LeverageZeroScoreAt, ComponentMaxScore), cfg.StatusBands)
}
