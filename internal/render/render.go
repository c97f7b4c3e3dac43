package render

import (
	"fmt"
	"math"
	"strings"

	"riskgraph/internal/domain"

	"github.com/vicanso/go-charts/v2"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// SensitivityChart draws portfolio value against the uniform price shock
func SensitivityChart(graph domain.SensitivityGraph) ([]byte, error) {
	if len(graph.DataPoints) == 0 {
		return nil, fmt.Errorf("sensitivity graph has no data points")
	}

	xLabels := make([]string, 0, len(graph.DataPoints))
	values := make([]float64, 0, len(graph.DataPoints))
	for _, p := range graph.DataPoints {
		xLabels = append(xLabels, fmt.Sprintf("%+.0f%%", p.X))
		values = append(values, p.Y)
	}

	padding := (graph.ValueRange.Max - graph.ValueRange.Min) * 0.05
	if padding == 0 {
		padding = math.Max(math.Abs(graph.ValueRange.Max)*0.05, 1)
	}
	yMin := graph.ValueRange.Min - padding
	yMax := graph.ValueRange.Max + padding

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc("Portfolio Value vs Price Shock", fmt.Sprintf("Current: $%.2f", graph.ValueRange.Current)),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(defaultWidth),
		charts.HeightOptionFunc(defaultHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render sensitivity chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// RiskContributionChart is a pie of each asset's share of portfolio risk.
// Hedging legs contribute negative risk, so slices use the magnitude
func RiskContributionChart(graph domain.RiskContribution) ([]byte, error) {
	values := []float64{}
	labels := []string{}
	for _, c := range graph.Contributions {
		if c.RiskPct == 0 {
			continue
		}
		values = append(values, math.Abs(c.RiskPct))
		labels = append(labels, fmt.Sprintf("%s (%.1f%%)", c.Asset, c.RiskPct))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("risk contribution graph has no non-zero contributions")
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc("Risk Contribution", fmt.Sprintf("σp %.1f%% | diversification %.1f%%", graph.PortfolioVolatility*100, graph.DiversificationBenefit)),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(defaultWidth),
		charts.HeightOptionFunc(defaultHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render risk contribution chart: %w", err)
	}
	return p.Bytes()
}

// HealthChart is a bar per health component, each out of 25
func HealthChart(dashboard domain.AlertDashboard) ([]byte, error) {
	c := dashboard.HealthComponents
	labels := []string{"Delta", "Volatility", "Sharpe", "Leverage"}
	values := []float64{c.DeltaNeutral.Score, c.Volatility.Score, c.SharpeRatio.Score, c.Leverage.Score}

	yMin, yMax := 0.0, 25.0
	statuses := []string{
		string(c.DeltaNeutral.Status),
		string(c.Volatility.Status),
		string(c.SharpeRatio.Status),
		string(c.Leverage.Status),
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(fmt.Sprintf("Health Score %.0f/100", dashboard.HealthScore), strings.Join(statuses, " | ")),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data: labels,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(defaultWidth),
		charts.HeightOptionFunc(defaultHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render health chart: %w", err)
	}
	return p.Bytes()
}

// Charts renders whatever graphs the response carries, keyed by graph type
func Charts(response domain.GraphResponse) (map[domain.GraphType][]byte, error) {
	out := map[domain.GraphType][]byte{}
	if response.Sensitivity != nil {
		buf, err := SensitivityChart(*response.Sensitivity)
		if err != nil {
			return nil, err
		}
		out[domain.GraphTypeSensitivity] = buf
	}
	if response.RiskContribution != nil && len(response.RiskContribution.Contributions) > 0 {
		buf, err := RiskContributionChart(*response.RiskContribution)
		if err != nil {
			return nil, err
		}
		out[domain.GraphTypeRiskContribution] = buf
	}
	if response.Alerts != nil {
		buf, err := HealthChart(*response.Alerts)
		if err != nil {
			return nil, err
		}
		out[domain.GraphTypeAlerts] = buf
	}
	return out, nil
}
