package calculator

import (
	"fmt"
	"math"

	"riskgraph/internal/domain"

	"github.com/montanaflynn/stats"
)

// crypto trades every day
const PeriodsPerYear = 365

type CalculateMetricsResult struct {
	AnnualizedStdev  float64
	AnnualizedReturn float64
	SharpeRatio      float64
}

// CalculateMetrics annualizes a periodic return series. Sharpe is 0 when
// the series has no dispersion
func CalculateMetrics(returns []float64, periodsPerYear, riskFreeRate float64) (*CalculateMetricsResult, error) {
	if len(returns) < 2 {
		return nil, fmt.Errorf("cannot calculate metrics on < 2 returns")
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return nil, err
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}

	annualizedStdev := stdev * math.Sqrt(periodsPerYear)
	annualizedReturn := mean * periodsPerYear

	sharpeRatio := 0.0
	if annualizedStdev > 0 {
		sharpeRatio = (annualizedReturn - riskFreeRate) / annualizedStdev
	}

	return &CalculateMetricsResult{
		AnnualizedStdev:  finite(annualizedStdev),
		AnnualizedReturn: finite(annualizedReturn),
		SharpeRatio:      finite(sharpeRatio),
	}, nil
}

// SimpleReturns converts a price series into period-over-period returns
func SimpleReturns(prices []float64) ([]float64, error) {
	returns := make([]float64, 0, max(len(prices)-1, 0))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 {
			return nil, fmt.Errorf("non-positive price %v at index %d", prices[i-1], i-1)
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}
	return returns, nil
}

// AnnualizedCovariance builds the sample covariance matrix of aligned
// return series, scaled by periodsPerYear
func AnnualizedCovariance(assets []string, returns map[string][]float64, periodsPerYear float64) (*domain.CovarianceMatrix, error) {
	n := len(assets)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			ri, rj := returns[assets[i]], returns[assets[j]]
			if len(ri) != len(rj) {
				return nil, fmt.Errorf("return series for %s and %s are not aligned (%d vs %d)", assets[i], assets[j], len(ri), len(rj))
			}
			cov, err := stats.Covariance(ri, rj)
			if err != nil {
				return nil, fmt.Errorf("failed to compute covariance of %s and %s: %w", assets[i], assets[j], err)
			}
			cov = finite(cov * periodsPerYear)
			values[i][j] = cov
			values[j][i] = cov
		}
	}
	return &domain.CovarianceMatrix{
		Assets: append([]string{}, assets...),
		Values: values,
	}, nil
}

// WeightedReturns is the portfolio return series Σ w_i r_i,t over the
// shortest common tail of the asset series
func WeightedReturns(series map[string]domain.ReturnSeries, weights map[string]float64) ([]float64, error) {
	length := -1
	for asset := range weights {
		s, ok := series[asset]
		if !ok {
			return nil, domain.DataUnavailableError{Asset: asset, Reason: "no return series"}
		}
		if length < 0 || len(s.Returns) < length {
			length = len(s.Returns)
		}
	}
	if length <= 0 {
		return []float64{}, nil
	}

	out := make([]float64, length)
	for asset, w := range weights {
		r := series[asset].Returns
		offset := len(r) - length
		for t := 0; t < length; t++ {
			out[t] += w * r[offset+t]
		}
	}
	return out, nil
}

// PortfolioSharpe is the realized Sharpe ratio of the weighted book
func PortfolioSharpe(returnStats domain.ReturnStats, exposures []AssetExposure) (float64, error) {
	weights, _ := Weights(exposures)
	byAsset := map[string]float64{}
	for i, e := range exposures {
		byAsset[e.Asset] += weights[i]
	}
	returns, err := WeightedReturns(returnStats.Series, byAsset)
	if err != nil {
		return 0, err
	}
	if len(returns) < 2 {
		return 0, nil
	}
	ppy := returnStats.PeriodsPerYear
	if ppy <= 0 {
		ppy = PeriodsPerYear
	}
	metrics, err := CalculateMetrics(returns, ppy, returnStats.RiskFreeRate)
	if err != nil {
		return 0, err
	}
	return metrics.SharpeRatio, nil
}
