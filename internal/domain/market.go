package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type AssetPrice struct {
	Symbol string
	Price  decimal.Decimal
	Date   time.Time
}

// MarketSnapshot is the single set of current prices every engine in a
// request reads from
type MarketSnapshot struct {
	Prices map[string]float64 `json:"prices"`
	AsOf   time.Time          `json:"as_of"`
}

func (m MarketSnapshot) Price(asset string) (float64, error) {
	price, ok := m.Prices[asset]
	if !ok {
		return 0, PriceUnavailableError{Asset: asset, Reason: "missing from market snapshot"}
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, PriceUnavailableError{Asset: asset, Reason: fmt.Sprintf("invalid price %v", price)}
	}
	return price, nil
}

// Shocked returns a copy with every price moved by the same relative shock
func (m MarketSnapshot) Shocked(shockPct float64) MarketSnapshot {
	prices := make(map[string]float64, len(m.Prices))
	for asset, price := range m.Prices {
		prices[asset] = price * (1 + shockPct/100)
	}
	return MarketSnapshot{
		Prices: prices,
		AsOf:   m.AsOf,
	}
}

type ReturnSeries struct {
	Asset string `json:"asset"`
	// aligned daily simple returns, oldest first
	Returns              []float64 `json:"returns"`
	AnnualizedVolatility float64   `json:"annualized_volatility"`
}

// CovarianceMatrix is annualized and indexed by Assets
type CovarianceMatrix struct {
	Assets []string    `json:"assets"`
	Values [][]float64 `json:"values"`
}

func (c CovarianceMatrix) Index(asset string) (int, bool) {
	for i, a := range c.Assets {
		if a == asset {
			return i, true
		}
	}
	return 0, false
}

func (c CovarianceMatrix) Get(a, b string) (float64, error) {
	i, ok := c.Index(a)
	if !ok {
		return 0, DataUnavailableError{Asset: a, Reason: "missing from covariance matrix"}
	}
	j, ok := c.Index(b)
	if !ok {
		return 0, DataUnavailableError{Asset: b, Reason: "missing from covariance matrix"}
	}
	return c.Values[i][j], nil
}

func (c CovarianceMatrix) Validate() error {
	n := len(c.Assets)
	if len(c.Values) != n {
		return fmt.Errorf("covariance matrix has %d rows for %d assets", len(c.Values), n)
	}
	for i := range c.Values {
		if len(c.Values[i]) != n {
			return fmt.Errorf("covariance matrix row %d has %d columns, expected %d", i, len(c.Values[i]), n)
		}
		for j := range c.Values[i] {
			v := c.Values[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("covariance matrix has non-finite value at (%s, %s)", c.Assets[i], c.Assets[j])
			}
			if math.Abs(v-c.Values[j][i]) > 1e-9*math.Max(1, math.Abs(v)) {
				return fmt.Errorf("covariance matrix is not symmetric at (%s, %s)", c.Assets[i], c.Assets[j])
			}
		}
	}
	return nil
}

// ReturnStats is everything the return statistics provider supplies for one
// request: per-asset series, the covariance matrix, and the annualization
// inputs needed to compute a realized Sharpe ratio
type ReturnStats struct {
	LookbackDays   int                     `json:"lookback_days"`
	Observations   int                     `json:"observations"`
	PeriodsPerYear float64                 `json:"periods_per_year"`
	RiskFreeRate   float64                 `json:"risk_free_rate"`
	Series         map[string]ReturnSeries `json:"series"`
	Covariance     CovarianceMatrix        `json:"covariance"`
}

func (r ReturnStats) Volatility(asset string) (float64, error) {
	s, ok := r.Series[asset]
	if !ok {
		return 0, DataUnavailableError{Asset: asset, Reason: "no return series"}
	}
	return s.AnnualizedVolatility, nil
}
