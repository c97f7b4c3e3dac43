package calculator

import (
	"math"

	"riskgraph/internal/domain"
)

// AlertInputs carries values the orchestrator already computed for other
// graphs so the alert engine never recomputes them
type AlertInputs struct {
	Positions           []domain.Position
	Snapshot            domain.MarketSnapshot
	Delta               domain.DeltaGauge
	PortfolioVolatility float64
	SharpeRatio         float64
}

func CalculateAlerts(in AlertInputs, cfg AlertConfig) (*domain.AlertDashboard, error) {
	components := domain.HealthComponents{
		DeltaNeutral: DeltaNeutralScore(in.Delta.DeltaNormalized, cfg),
		Volatility:   VolatilityScore(in.PortfolioVolatility, cfg),
		SharpeRatio:  SharpeScore(in.SharpeRatio, cfg),
		Leverage:     LeverageScore(MaxFuturesLeverage(in.Positions), cfg),
	}

	liquidation, err := CalculateLiquidationRisk(in.Positions, in.Snapshot, cfg)
	if err != nil {
		return nil, err
	}

	return &domain.AlertDashboard{
		HealthScore:       components.Total(),
		HealthComponents:  components,
		LiquidationRisk:   *liquidation,
		RebalancingSignal: RebalancingSignalFor(in.Delta, cfg),
	}, nil
}

// MaxFuturesLeverage is 1 when the book holds no futures
func MaxFuturesLeverage(positions []domain.Position) float64 {
	out := 1.0
	for _, p := range positions {
		if p.PositionType.IsFutures() {
			out = math.Max(out, p.Leverage)
		}
	}
	return out
}

// LiquidationPrice ignores fees and slippage; m is the maintenance margin buffer
func LiquidationPrice(p domain.Position, m float64) float64 {
	if p.PositionType == domain.PositionTypeFuturesShort {
		return p.EntryPrice * (1 + 1/p.Leverage - m)
	}
	return p.EntryPrice * (1 - 1/p.Leverage + m)
}

func riskLevelFor(distancePct float64, cfg AlertConfig) domain.RiskLevel {
	switch {
	case distancePct > cfg.SafeDistancePct:
		return domain.RiskLevelSafe
	case distancePct >= cfg.HighRiskDistancePct:
		return domain.RiskLevelModerate
	default:
		return domain.RiskLevelHigh
	}
}

func CalculateLiquidationRisk(positions []domain.Position, snapshot domain.MarketSnapshot, cfg AlertConfig) (*domain.LiquidationRisk, error) {
	out := &domain.LiquidationRisk{
		Positions: []domain.LiquidationEstimate{},
	}
	for _, p := range positions {
		if !p.PositionType.IsFutures() || p.Leverage <= 1 {
			continue
		}
		current, err := snapshot.Price(p.Asset)
		if err != nil {
			return nil, err
		}
		liq := LiquidationPrice(p, cfg.MaintenanceMargin)
		distance := finite(math.Abs(current-liq) / current * 100)
		level := riskLevelFor(distance, cfg)

		out.Positions = append(out.Positions, domain.LiquidationEstimate{
			Asset:            p.Asset,
			PositionType:     p.PositionType,
			Leverage:         p.Leverage,
			EntryPrice:       p.EntryPrice,
			CurrentPrice:     current,
			LiquidationPrice: finite(liq),
			PriceDistancePct: distance,
			RiskLevel:        level,
		})
		if out.OverallRisk == nil || level.Severity() > out.OverallRisk.Severity() {
			worst := level
			out.OverallRisk = &worst
		}
	}
	return out, nil
}

func RebalancingSignalFor(delta domain.DeltaGauge, cfg AlertConfig) domain.RebalancingSignal {
	abs := math.Abs(delta.DeltaNormalized)
	urgency := domain.RebalanceUrgencyNone
	needed := abs > cfg.RebalanceThreshold
	if needed {
		urgency = domain.RebalanceUrgencyHigh
		if abs <= cfg.RebalanceHighThreshold {
			urgency = domain.RebalanceUrgencyMedium
		}
	}
	return domain.RebalancingSignal{
		Needed:          needed,
		Urgency:         urgency,
		CurrentDelta:    delta.DeltaRaw,
		DeltaNormalized: delta.DeltaNormalized,
	}
}
