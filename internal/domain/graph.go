package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type GraphType string

const (
	GraphTypeSensitivity      GraphType = "sensitivity"
	GraphTypeDelta            GraphType = "delta"
	GraphTypeRiskContribution GraphType = "risk_contribution"
	GraphTypeAlerts           GraphType = "alerts"

	// phase 2, recognized but not computed yet
	GraphTypeFundingWaterfall GraphType = "funding_waterfall"
	GraphTypeRollingMetrics   GraphType = "rolling_metrics"
	GraphTypeMonteCarlo       GraphType = "monte_carlo"
)

var ImplementedGraphTypes = []GraphType{
	GraphTypeSensitivity,
	GraphTypeDelta,
	GraphTypeRiskContribution,
	GraphTypeAlerts,
}

var PendingGraphTypes = []GraphType{
	GraphTypeFundingWaterfall,
	GraphTypeRollingMetrics,
	GraphTypeMonteCarlo,
}

func (g GraphType) IsImplemented() bool {
	for _, t := range ImplementedGraphTypes {
		if t == g {
			return true
		}
	}
	return false
}

func (g GraphType) IsKnown() bool {
	if g.IsImplemented() {
		return true
	}
	for _, t := range PendingGraphTypes {
		if t == g {
			return true
		}
	}
	return false
}

const (
	MinLookbackDays     = 7
	MaxLookbackDays     = 90
	DefaultLookbackDays = 30
)

func ClampLookbackDays(days *int) int {
	if days == nil {
		return DefaultLookbackDays
	}
	return max(MinLookbackDays, min(MaxLookbackDays, *days))
}

type GraphRequest struct {
	Positions    []Position  `json:"positions"`
	LookbackDays *int        `json:"lookback_days,omitempty"`
	GraphTypes   []GraphType `json:"graph_types,omitempty"`
}

// ValidatedGraphRequest is a GraphRequest after defaults, clamping and
// validation. Engines only ever see this form
type ValidatedGraphRequest struct {
	Positions    []Position
	LookbackDays int
	GraphTypes   []GraphType
}

func (v ValidatedGraphRequest) Wants(g GraphType) bool {
	for _, t := range v.GraphTypes {
		if t == g {
			return true
		}
	}
	return false
}

func (r GraphRequest) Validate() (*ValidatedGraphRequest, error) {
	if len(r.Positions) == 0 {
		return nil, ValidationError{Field: "positions", Reason: "portfolio must contain at least one position"}
	}
	if len(r.Positions) > MaxPositions {
		return nil, ValidationError{Field: "positions", Reason: fmt.Sprintf("at most %d positions allowed, got %d", MaxPositions, len(r.Positions))}
	}

	positions := make([]Position, 0, len(r.Positions))
	for i, p := range r.Positions {
		normalized := p.Normalized()
		if err := normalized.Validate(i); err != nil {
			return nil, err
		}
		positions = append(positions, normalized)
	}

	graphTypes := []GraphType{}
	if len(r.GraphTypes) == 0 {
		graphTypes = append(graphTypes, ImplementedGraphTypes...)
	}
	seen := map[GraphType]bool{}
	for i, g := range r.GraphTypes {
		if !g.IsKnown() {
			return nil, ValidationError{Field: fmt.Sprintf("graph_types[%d]", i), Reason: fmt.Sprintf("unknown graph type %q", g)}
		}
		if !seen[g] {
			seen[g] = true
			graphTypes = append(graphTypes, g)
		}
	}

	return &ValidatedGraphRequest{
		Positions:    positions,
		LookbackDays: ClampLookbackDays(r.LookbackDays),
		GraphTypes:   graphTypes,
	}, nil
}

type SensitivityPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ReturnPct float64 `json:"return_pct"`
	PnL       float64 `json:"pnl"`
}

type ValueRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Current float64 `json:"current"`
}

type SensitivityGraph struct {
	DataPoints      []SensitivityPoint `json:"data_points"`
	CurrentPosition int                `json:"current_position"`
	ValueRange      ValueRange         `json:"value_range"`
}

type DeltaStatus string

const (
	DeltaStatusNeutral     DeltaStatus = "neutral"
	DeltaStatusSlightLong  DeltaStatus = "slight_long"
	DeltaStatusSlightShort DeltaStatus = "slight_short"
	DeltaStatusHighLong    DeltaStatus = "high_long"
	DeltaStatusHighShort   DeltaStatus = "high_short"
)

type DeltaGauge struct {
	DeltaRaw               float64     `json:"delta_raw"`
	DeltaNormalized        float64     `json:"delta_normalized"`
	Status                 DeltaStatus `json:"status"`
	PortfolioValue         float64     `json:"portfolio_value"`
	DirectionalExposurePct float64     `json:"directional_exposure_pct"`
}

type AssetRiskContribution struct {
	Asset         string  `json:"asset"`
	RiskPct       float64 `json:"risk_pct"`
	ValuePct      float64 `json:"value_pct"`
	RiskValue     float64 `json:"risk_value"`
	PositionValue float64 `json:"position_value"`
	Weight        float64 `json:"weight"`
	Volatility    float64 `json:"volatility"`
}

type RiskContribution struct {
	Contributions          []AssetRiskContribution `json:"contributions"`
	TotalRisk              float64                 `json:"total_risk"`
	PortfolioVolatility    float64                 `json:"portfolio_volatility"`
	DiversificationBenefit float64                 `json:"diversification_benefit"`
}

type HealthStatus string

const (
	HealthStatusExcellent HealthStatus = "excellent"
	HealthStatusGood      HealthStatus = "good"
	HealthStatusFair      HealthStatus = "fair"
	HealthStatusWarning   HealthStatus = "warning"
	HealthStatusPoor      HealthStatus = "poor"
)

type ComponentScore struct {
	Score  float64      `json:"score"`
	Status HealthStatus `json:"status"`
}

type HealthComponents struct {
	DeltaNeutral ComponentScore `json:"delta_neutral"`
	Volatility   ComponentScore `json:"volatility"`
	SharpeRatio  ComponentScore `json:"sharpe_ratio"`
	Leverage     ComponentScore `json:"leverage"`
}

func (h HealthComponents) Total() float64 {
	return h.DeltaNeutral.Score + h.Volatility.Score + h.SharpeRatio.Score + h.Leverage.Score
}

type RiskLevel string

const (
	RiskLevelSafe     RiskLevel = "safe"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
)

// Severity orders risk levels, higher is worse
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLevelSafe:
		return 1
	case RiskLevelModerate:
		return 2
	case RiskLevelHigh:
		return 3
	}
	return 0
}

type LiquidationEstimate struct {
	Asset            string       `json:"asset"`
	PositionType     PositionType `json:"position_type"`
	Leverage         float64      `json:"leverage"`
	EntryPrice       float64      `json:"entry_price"`
	CurrentPrice     float64      `json:"current_price"`
	LiquidationPrice float64      `json:"liquidation_price"`
	PriceDistancePct float64      `json:"price_distance_pct"`
	RiskLevel        RiskLevel    `json:"risk_level"`
}

type LiquidationRisk struct {
	// nil when the book has no leveraged positions
	OverallRisk *RiskLevel            `json:"overall_risk"`
	Positions   []LiquidationEstimate `json:"positions"`
}

type RebalanceUrgency string

const (
	RebalanceUrgencyNone   RebalanceUrgency = "none"
	RebalanceUrgencyMedium RebalanceUrgency = "medium"
	RebalanceUrgencyHigh   RebalanceUrgency = "high"
)

type RebalancingSignal struct {
	Needed          bool             `json:"needed"`
	Urgency         RebalanceUrgency `json:"urgency"`
	CurrentDelta    float64          `json:"current_delta"`
	DeltaNormalized float64          `json:"delta_normalized"`
}

type AlertDashboard struct {
	HealthScore       float64           `json:"health_score"`
	HealthComponents  HealthComponents  `json:"health_components"`
	LiquidationRisk   LiquidationRisk   `json:"liquidation_risk"`
	RebalancingSignal RebalancingSignal `json:"rebalancing_signal"`
}

// Phase 2 payloads. They exist so the response shape is fixed; nothing
// constructs them yet
type FundingWaterfall struct{}
type RollingMetrics struct{}
type MonteCarloFan struct{}

type GraphError struct {
	GraphType GraphType `json:"graph_type"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}

type GraphMetadata struct {
	RequestID           uuid.UUID           `json:"request_id"`
	LookbackDaysUsed    int                 `json:"lookback_days_used"`
	GraphTypesGenerated []GraphType         `json:"graph_types_generated"`
	NotImplemented      []GraphType         `json:"not_implemented"`
	Errors              []GraphError        `json:"errors"`
	DataWarning         *string             `json:"data_warning"`
	Timestamp           time.Time           `json:"timestamp"`
	Profile             *PerformanceProfile `json:"profile,omitempty"`
}

type GraphResponse struct {
	Sensitivity      *SensitivityGraph `json:"sensitivity"`
	Delta            *DeltaGauge       `json:"delta"`
	RiskContribution *RiskContribution `json:"risk_contribution"`
	Alerts           *AlertDashboard   `json:"alerts"`
	FundingWaterfall *FundingWaterfall `json:"funding_waterfall"`
	RollingMetrics   *RollingMetrics   `json:"rolling_metrics"`
	MonteCarlo       *MonteCarloFan    `json:"monte_carlo"`
	Metadata         GraphMetadata     `json:"metadata"`
}
