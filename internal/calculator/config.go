package calculator

import (
	"fmt"
	"math"
	"sort"
)

// EngineConfig holds every tunable threshold the engines use. The bands
// were inferred from example dashboards, so they are config instead of
// literals
type EngineConfig struct {
	ExposureConvention ExposureConvention `mapstructure:"exposure_convention" json:"exposure_convention"`
	Sensitivity        SensitivityConfig  `mapstructure:"sensitivity" json:"sensitivity"`
	Delta              DeltaConfig        `mapstructure:"delta" json:"delta"`
	Alerts             AlertConfig        `mapstructure:"alerts" json:"alerts"`
}

type SensitivityConfig struct {
	// explicit grid, used as-is when set
	ShocksPct []float64 `mapstructure:"shocks_pct" json:"shocks_pct"`
	// symmetric grid -BoundPct..BoundPct in StepPct increments, used when
	// ShocksPct is empty
	BoundPct float64 `mapstructure:"bound_pct" json:"bound_pct"`
	StepPct  float64 `mapstructure:"step_pct" json:"step_pct"`
}

type DeltaConfig struct {
	NeutralBand float64 `mapstructure:"neutral_band" json:"neutral_band"`
	HighBand    float64 `mapstructure:"high_band" json:"high_band"`
}

type StatusBands struct {
	Excellent float64 `mapstructure:"excellent" json:"excellent"`
	Good      float64 `mapstructure:"good" json:"good"`
	Fair      float64 `mapstructure:"fair" json:"fair"`
	Warning   float64 `mapstructure:"warning" json:"warning"`
}

type AlertConfig struct {
	DeltaZeroScoreAt       float64     `mapstructure:"delta_zero_score_at" json:"delta_zero_score_at"`
	VolatilityLow          float64     `mapstructure:"volatility_low" json:"volatility_low"`
	VolatilityHigh         float64     `mapstructure:"volatility_high" json:"volatility_high"`
	SharpeFullScoreAt      float64     `mapstructure:"sharpe_full_score_at" json:"sharpe_full_score_at"`
	LeverageZeroScoreAt    float64     `mapstructure:"leverage_zero_score_at" json:"leverage_zero_score_at"`
	MaintenanceMargin      float64     `mapstructure:"maintenance_margin" json:"maintenance_margin"`
	SafeDistancePct        float64     `mapstructure:"safe_distance_pct" json:"safe_distance_pct"`
	HighRiskDistancePct    float64     `mapstructure:"high_risk_distance_pct" json:"high_risk_distance_pct"`
	RebalanceThreshold     float64     `mapstructure:"rebalance_threshold" json:"rebalance_threshold"`
	RebalanceHighThreshold float64     `mapstructure:"rebalance_high_threshold" json:"rebalance_high_threshold"`
	StatusBands            StatusBands `mapstructure:"status_bands" json:"status_bands"`
}

const ComponentMaxScore = 25.0

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ExposureConvention: ExposureNotional,
		Sensitivity: SensitivityConfig{
			ShocksPct: []float64{-30, -20, -10, -5, 0, 5, 10, 20, 30},
		},
		Delta: DeltaConfig{
			NeutralBand: 0.05,
			HighBand:    0.2,
		},
		Alerts: AlertConfig{
			DeltaZeroScoreAt:       0.5,
			VolatilityLow:          0.20,
			VolatilityHigh:         1.00,
			SharpeFullScoreAt:      2,
			LeverageZeroScoreAt:    10,
			MaintenanceMargin:      0.005,
			SafeDistancePct:        40,
			HighRiskDistancePct:    15,
			RebalanceThreshold:     0.1,
			RebalanceHighThreshold: 0.2,
			StatusBands: StatusBands{
				Excellent: 20,
				Good:      15,
				Fair:      10,
				Warning:   5,
			},
		},
	}
}

func (c EngineConfig) Validate() error {
	switch c.ExposureConvention {
	case ExposureNotional, ExposureMargin:
	default:
		return fmt.Errorf("unknown exposure convention %q", c.ExposureConvention)
	}
	if _, err := c.Sensitivity.Grid(); err != nil {
		return err
	}
	if c.Delta.NeutralBand < 0 || c.Delta.HighBand < c.Delta.NeutralBand {
		return fmt.Errorf("delta bands must satisfy 0 <= neutral (%v) <= high (%v)", c.Delta.NeutralBand, c.Delta.HighBand)
	}
	a := c.Alerts
	if a.DeltaZeroScoreAt <= 0 {
		return fmt.Errorf("alerts.delta_zero_score_at must be > 0")
	}
	if a.VolatilityHigh <= a.VolatilityLow {
		return fmt.Errorf("alerts.volatility_high (%v) must exceed volatility_low (%v)", a.VolatilityHigh, a.VolatilityLow)
	}
	if a.SharpeFullScoreAt <= 0 {
		return fmt.Errorf("alerts.sharpe_full_score_at must be > 0")
	}
	if a.LeverageZeroScoreAt <= 1 {
		return fmt.Errorf("alerts.leverage_zero_score_at must be > 1")
	}
	if a.MaintenanceMargin < 0 || a.MaintenanceMargin >= 1 {
		return fmt.Errorf("alerts.maintenance_margin must be in [0, 1)")
	}
	if a.HighRiskDistancePct > a.SafeDistancePct {
		return fmt.Errorf("alerts.high_risk_distance_pct (%v) must not exceed safe_distance_pct (%v)", a.HighRiskDistancePct, a.SafeDistancePct)
	}
	if a.RebalanceHighThreshold < a.RebalanceThreshold {
		return fmt.Errorf("alerts.rebalance_high_threshold must be >= rebalance_threshold")
	}
	return nil
}

// Grid returns the ordered shock grid in percent. 0 is always included
func (c SensitivityConfig) Grid() ([]float64, error) {
	shocks := []float64{}
	if len(c.ShocksPct) > 0 {
		shocks = append(shocks, c.ShocksPct...)
	} else {
		if c.StepPct <= 0 || c.BoundPct <= 0 {
			return nil, fmt.Errorf("sensitivity grid needs shocks_pct or a positive bound_pct and step_pct")
		}
		n := int(math.Floor(c.BoundPct/c.StepPct + 1e-9))
		for i := -n; i <= n; i++ {
			shocks = append(shocks, float64(i)*c.StepPct)
		}
	}

	hasZero := false
	for _, s := range shocks {
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= -100 {
			return nil, fmt.Errorf("invalid shock %v%%: shocks must be finite and > -100", s)
		}
		if s == 0 {
			hasZero = true
		}
	}
	if !hasZero {
		shocks = append(shocks, 0)
	}
	sort.Float64s(shocks)

	deduped := shocks[:1]
	for _, s := range shocks[1:] {
		if s != deduped[len(deduped)-1] {
			deduped = append(deduped, s)
		}
	}
	return deduped, nil
}
