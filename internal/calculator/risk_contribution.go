package calculator

import (
	"fmt"
	"math"
	"sort"

	"riskgraph/internal/domain"
)

type AssetExposure struct {
	Asset string
	// signed sum of position values for the asset
	Value float64
}

// AggregateAssetValues nets position values per asset, in first-seen order
func AggregateAssetValues(positions []domain.Position, snapshot domain.MarketSnapshot, model ValuationModel) ([]AssetExposure, error) {
	index := map[string]int{}
	out := []AssetExposure{}
	for _, p := range positions {
		v, err := model.ValueAt(p, snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to value %s %s: %w", p.PositionType, p.Asset, err)
		}
		i, ok := index[p.Asset]
		if !ok {
			i = len(out)
			index[p.Asset] = i
			out = append(out, AssetExposure{Asset: p.Asset})
		}
		out[i].Value += v.Value
	}
	return out, nil
}

// Weights returns w_i = v_i / Σ|v| along with the gross value
func Weights(exposures []AssetExposure) ([]float64, float64) {
	gross := 0.0
	for _, e := range exposures {
		gross += math.Abs(e.Value)
	}
	weights := make([]float64, len(exposures))
	if gross == 0 {
		return weights, 0
	}
	for i, e := range exposures {
		weights[i] = e.Value / gross
	}
	return weights, gross
}

// covarianceFor pulls the sub-matrix for exposures out of the provider matrix
func covarianceFor(exposures []AssetExposure, cov domain.CovarianceMatrix) ([][]float64, error) {
	n := len(exposures)
	out := make([][]float64, n)
	for i := range exposures {
		out[i] = make([]float64, n)
		for j := range exposures {
			v, err := cov.Get(exposures[i].Asset, exposures[j].Asset)
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}
	return out, nil
}

func matVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(v))
	for i := range m {
		for j := range m[i] {
			out[i] += m[i][j] * v[j]
		}
	}
	return out
}

// PortfolioVolatility is sqrt(wᵀΣw) for the given exposures. The alert
// engine reuses this so both graphs report the same σ_p
func PortfolioVolatility(exposures []AssetExposure, cov domain.CovarianceMatrix) (float64, error) {
	if len(exposures) == 0 {
		return 0, nil
	}
	sigma, err := covarianceFor(exposures, cov)
	if err != nil {
		return 0, err
	}
	weights, _ := Weights(exposures)
	sigmaW := matVec(sigma, weights)
	variance := 0.0
	for i := range weights {
		variance += weights[i] * sigmaW[i]
	}
	return finite(math.Sqrt(math.Max(0, variance))), nil
}

func CalculateRiskContribution(exposures []AssetExposure, stats domain.ReturnStats) (*domain.RiskContribution, error) {
	out := &domain.RiskContribution{
		Contributions: []domain.AssetRiskContribution{},
	}
	if len(exposures) == 0 {
		return out, nil
	}

	if err := stats.Covariance.Validate(); err != nil {
		return nil, fmt.Errorf("invalid covariance matrix: %w", err)
	}
	sigma, err := covarianceFor(exposures, stats.Covariance)
	if err != nil {
		return nil, err
	}

	weights, gross := Weights(exposures)
	sigmaW := matVec(sigma, weights)

	mcr := make([]float64, len(exposures))
	variance := 0.0
	absMcr := 0.0
	for i := range exposures {
		mcr[i] = weights[i] * sigmaW[i]
		variance += mcr[i]
		absMcr += math.Abs(mcr[i])
	}
	portfolioVol := math.Sqrt(math.Max(0, variance))

	single := len(exposures) == 1
	weightedVol := 0.0
	for i, e := range exposures {
		vol, err := stats.Volatility(e.Asset)
		if err != nil {
			vol = math.Sqrt(math.Max(0, sigma[i][i]))
		}
		weightedVol += math.Abs(weights[i]) * vol

		c := domain.AssetRiskContribution{
			Asset:         e.Asset,
			RiskValue:     finite(mcr[i]),
			PositionValue: finite(e.Value),
			Weight:        finite(weights[i]),
			Volatility:    finite(vol),
		}
		switch {
		case single:
			c.RiskPct = 100
		case absMcr > 0:
			c.RiskPct = finite(mcr[i] / absMcr * 100)
		}
		switch {
		case single:
			c.ValuePct = 100
		case gross > 0:
			c.ValuePct = finite(math.Abs(e.Value) / gross * 100)
		}
		out.Contributions = append(out.Contributions, c)
	}

	sort.SliceStable(out.Contributions, func(i, j int) bool {
		a, b := out.Contributions[i], out.Contributions[j]
		if math.Abs(a.RiskPct) != math.Abs(b.RiskPct) {
			return math.Abs(a.RiskPct) > math.Abs(b.RiskPct)
		}
		return a.Asset < b.Asset
	})

	out.TotalRisk = finite(variance)
	out.PortfolioVolatility = finite(portfolioVol)
	if !single && weightedVol > 0 {
		out.DiversificationBenefit = finite(clamp((1-portfolioVol/weightedVol)*100, 0, 100))
	}
	return out, nil
}
