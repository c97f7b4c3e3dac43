package l1_service

import (
	"context"
	"fmt"
	"time"

	"riskgraph/internal/calculator"
	"riskgraph/internal/domain"
	"riskgraph/internal/logger"
	"riskgraph/internal/repository"

	"golang.org/x/sync/errgroup"
)

// at least a week of daily returns per asset
const MinObservations = 7

type ReturnStatsConfig struct {
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
	// a missing daily close is filled from the last close at most this many days back
	MaxFillDays      int `mapstructure:"max_fill_days"`
	FetchConcurrency int `mapstructure:"fetch_concurrency"`
}

func DefaultReturnStatsConfig() ReturnStatsConfig {
	return ReturnStatsConfig{
		RiskFreeRate:     0,
		MaxFillDays:      7,
		FetchConcurrency: 4,
	}
}

type ReturnStatsProvider interface {
	GetStats(ctx context.Context, assets []string, lookbackDays int) (*domain.ReturnStats, error)
}

type returnStatsHandler struct {
	PriceRepository repository.PriceRepository
	StatsCache      repository.StatsCacheRepository
	Config          ReturnStatsConfig
	guard           *upstreamGuard
	Now             func() time.Time
}

func NewReturnStatsProvider(
	priceRepository repository.PriceRepository,
	statsCache repository.StatsCacheRepository,
	cfg ReturnStatsConfig,
	upstreamCfg UpstreamConfig,
) ReturnStatsProvider {
	if statsCache == nil {
		statsCache = repository.NewNoopStatsCacheRepository()
	}
	return &returnStatsHandler{
		PriceRepository: priceRepository,
		StatsCache:      statsCache,
		Config:          cfg,
		guard:           newUpstreamGuard("price-history", upstreamCfg),
		Now:             time.Now,
	}
}

func (h returnStatsHandler) GetStats(ctx context.Context, assets []string, lookbackDays int) (*domain.ReturnStats, error) {
	log := logger.FromContext(ctx)
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets requested")
	}

	today := dayOf(h.Now())
	cacheKey := repository.StatsCacheKey(assets, lookbackDays, today)

	cached, err := h.StatsCache.Get(ctx, cacheKey)
	if err != nil {
		log.Warnf("failed to read stats cache: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	// the window ends on the last close every asset has, which may be
	// before today, so fetch enough to cover a late end plus fill slack
	fetchStart := today.AddDate(0, 0, -(lookbackDays + 2*h.Config.MaxFillDays))
	histories, err := h.fetchHistories(ctx, assets, fetchStart, today)
	if err != nil {
		return nil, err
	}

	end, err := lastCommonClose(assets, histories, today, h.Config.MaxFillDays)
	if err != nil {
		return nil, err
	}
	start := end.AddDate(0, 0, -lookbackDays)

	closes, err := alignCloses(assets, histories, start, end, h.Config.MaxFillDays)
	if err != nil {
		return nil, err
	}

	out, err := buildReturnStats(assets, closes, lookbackDays, h.Config.RiskFreeRate)
	if err != nil {
		return nil, err
	}

	if err := h.StatsCache.Set(ctx, cacheKey, *out); err != nil {
		log.Warnf("failed to write stats cache: %v", err)
	}

	return out, nil
}

func (h returnStatsHandler) fetchHistories(ctx context.Context, assets []string, start, end time.Time) ([][]domain.AssetPrice, error) {
	histories := make([][]domain.AssetPrice, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(h.Config.FetchConcurrency, 1))
	for i, asset := range assets {
		g.Go(func() error {
			result, err := h.guard.execute(gctx, func(ctx context.Context) (interface{}, error) {
				return h.PriceRepository.ListPrices(ctx, asset, start, end)
			})
			if err != nil {
				return fmt.Errorf("failed to list prices for %s: %w", asset, err)
			}
			histories[i], _ = result.([]domain.AssetPrice)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return histories, nil
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// lastCommonClose is the latest day on or before today for which every
// asset has a close. Sources that publish daily closes after midnight end
// yesterday or earlier; anything older than maxFillDays is stale
func lastCommonClose(assets []string, histories [][]domain.AssetPrice, today time.Time, maxFillDays int) (time.Time, error) {
	var end time.Time
	for i, asset := range assets {
		var latest time.Time
		for _, p := range histories[i] {
			day := dayOf(p.Date)
			if p.Price.IsPositive() && !day.After(today) && day.After(latest) {
				latest = day
			}
		}
		if latest.IsZero() {
			return time.Time{}, domain.DataUnavailableError{Asset: asset, Required: MinObservations}
		}
		if today.Sub(latest) > time.Duration(maxFillDays)*24*time.Hour {
			return time.Time{}, domain.DataUnavailableError{
				Asset:  asset,
				Reason: fmt.Sprintf("latest close is %s, more than %d days old", latest.Format(time.DateOnly), maxFillDays),
			}
		}
		if end.IsZero() || latest.Before(end) {
			end = latest
		}
	}
	return end, nil
}

// alignCloses puts every asset on the same daily calendar [start, end].
// Gaps are forward filled up to maxFillDays; leading days where some asset
// has no close yet are dropped so all series share a first day
func alignCloses(assets []string, histories [][]domain.AssetPrice, start, end time.Time, maxFillDays int) (map[string][]float64, error) {
	numDays := int(end.Sub(start).Hours()/24) + 1
	filled := make(map[string][]float64, len(assets))
	firstCommon := 0

	for i, asset := range assets {
		byDay := map[time.Time]float64{}
		for _, p := range histories[i] {
			if p.Price.IsPositive() {
				byDay[dayOf(p.Date)] = p.Price.InexactFloat64()
			}
		}

		series := make([]float64, numDays)
		realCloses := 0
		first := -1
		for d := 0; d < numDays; d++ {
			day := start.AddDate(0, 0, d)
			if price, ok := byDay[day]; ok {
				series[d] = price
				realCloses++
			} else {
				for back := 1; back <= maxFillDays; back++ {
					if price, ok := byDay[day.AddDate(0, 0, -back)]; ok {
						series[d] = price
						break
					}
				}
			}
			if series[d] > 0 && first < 0 {
				first = d
			}
		}

		if realCloses-1 < MinObservations || first < 0 {
			return nil, domain.DataUnavailableError{
				Asset:        asset,
				Observations: max(realCloses-1, 0),
				Required:     MinObservations,
			}
		}
		for d := first; d < numDays; d++ {
			if series[d] <= 0 {
				return nil, domain.DataUnavailableError{
					Asset:  asset,
					Reason: fmt.Sprintf("gap longer than %d days before %s", maxFillDays, start.AddDate(0, 0, d).Format(time.DateOnly)),
				}
			}
		}

		filled[asset] = series
		firstCommon = max(firstCommon, first)
	}

	out := make(map[string][]float64, len(assets))
	for asset, series := range filled {
		out[asset] = series[firstCommon:]
	}
	return out, nil
}

func buildReturnStats(assets []string, closes map[string][]float64, lookbackDays int, riskFreeRate float64) (*domain.ReturnStats, error) {
	returns := make(map[string][]float64, len(assets))
	series := make(map[string]domain.ReturnSeries, len(assets))
	observations := 0

	for _, asset := range assets {
		r, err := calculator.SimpleReturns(closes[asset])
		if err != nil {
			return nil, fmt.Errorf("failed to compute returns for %s: %w", asset, err)
		}
		if len(r) < MinObservations {
			return nil, domain.DataUnavailableError{Asset: asset, Observations: len(r), Required: MinObservations}
		}
		metrics, err := calculator.CalculateMetrics(r, calculator.PeriodsPerYear, riskFreeRate)
		if err != nil {
			return nil, fmt.Errorf("failed to compute volatility for %s: %w", asset, err)
		}
		returns[asset] = r
		series[asset] = domain.ReturnSeries{
			Asset:                asset,
			Returns:              r,
			AnnualizedVolatility: metrics.AnnualizedStdev,
		}
		observations = len(r)
	}

	cov, err := calculator.AnnualizedCovariance(assets, returns, calculator.PeriodsPerYear)
	if err != nil {
		return nil, err
	}

	return &domain.ReturnStats{
		LookbackDays:   lookbackDays,
		Observations:   observations,
		PeriodsPerYear: calculator.PeriodsPerYear,
		RiskFreeRate:   riskFreeRate,
		Series:         series,
		Covariance:     *cov,
	}, nil
}
