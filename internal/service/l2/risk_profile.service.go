package l2_service

import (
	"context"
	"fmt"

	"riskgraph/internal/calculator"
	"riskgraph/internal/domain"
	"riskgraph/internal/logger"
)

// RiskProfile holds the values more than one engine reads. It is derived
// once per request and passed by value into the engines
type RiskProfile struct {
	Positions []domain.Position
	Snapshot  domain.MarketSnapshot
	Model     calculator.ValuationModel

	Exposures []calculator.AssetExposure
	Delta     *domain.DeltaGauge
	DeltaErr  error

	// nil when risk statistics weren't requested or couldn't be fetched
	Stats               *domain.ReturnStats
	PortfolioVolatility float64
	SharpeRatio         float64
	StatsErr            error
}

type RiskProfileService interface {
	Build(ctx context.Context, positions []domain.Position, snapshot domain.MarketSnapshot, stats *domain.ReturnStats) *RiskProfile
}

type riskProfileServiceHandler struct {
	Config  calculator.EngineConfig
	Accrual calculator.AccrualModel
}

func NewRiskProfileService(cfg calculator.EngineConfig, accrual calculator.AccrualModel) RiskProfileService {
	return riskProfileServiceHandler{
		Config:  cfg,
		Accrual: accrual,
	}
}

// Build never fails as a whole. Failures are recorded on the profile so the
// orchestrator can null out only the graphs that depend on them
func (h riskProfileServiceHandler) Build(ctx context.Context, positions []domain.Position, snapshot domain.MarketSnapshot, stats *domain.ReturnStats) *RiskProfile {
	profile := domain.GetPerformanceProfile(ctx)
	defer profile.Track("build risk profile")()

	out := &RiskProfile{
		Positions: positions,
		Snapshot:  snapshot,
		Model:     calculator.NewValuationModel(h.Config.ExposureConvention, h.Accrual, snapshot.AsOf),
	}

	out.Delta, out.DeltaErr = calculator.CalculateDelta(positions, snapshot, out.Model, h.Config.Delta)

	if stats == nil {
		return out
	}

	exposures, err := calculator.AggregateAssetValues(positions, snapshot, out.Model)
	if err != nil {
		out.StatsErr = err
		return out
	}
	out.Exposures = exposures

	vol, err := calculator.PortfolioVolatility(exposures, stats.Covariance)
	if err != nil {
		out.StatsErr = fmt.Errorf("failed to compute portfolio volatility: %w", err)
		return out
	}

	sharpe, err := calculator.PortfolioSharpe(*stats, exposures)
	if err != nil {
		// a missing sharpe only costs the alert score its sharpe component
		logger.FromContext(ctx).Warnf("failed to compute sharpe ratio, scoring it as 0: %v", err)
		sharpe = 0
	}

	out.Stats = stats
	out.PortfolioVolatility = vol
	out.SharpeRatio = sharpe
	return out
}
