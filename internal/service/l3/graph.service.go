package l3_service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"riskgraph/internal/calculator"
	"riskgraph/internal/domain"
	"riskgraph/internal/logger"
	l1_service "riskgraph/internal/service/l1"
	l2_service "riskgraph/internal/service/l2"
	"riskgraph/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// observations below this get a data warning on the response
const DataWarningObservations = 30

type GraphService interface {
	GenerateGraphs(ctx context.Context, req domain.GraphRequest) (*domain.GraphResponse, error)
}

type graphServiceHandler struct {
	PriceFeed           l1_service.PriceFeed
	ReturnStatsProvider l1_service.ReturnStatsProvider
	RiskProfileService  l2_service.RiskProfileService
	Config              calculator.EngineConfig
	Metrics             *telemetry.Metrics
	Now                 func() time.Time

	grid []float64
}

func NewGraphService(
	priceFeed l1_service.PriceFeed,
	returnStatsProvider l1_service.ReturnStatsProvider,
	riskProfileService l2_service.RiskProfileService,
	cfg calculator.EngineConfig,
	metrics *telemetry.Metrics,
) (GraphService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	grid, err := cfg.Sensitivity.Grid()
	if err != nil {
		return nil, err
	}
	return &graphServiceHandler{
		PriceFeed:           priceFeed,
		ReturnStatsProvider: returnStatsProvider,
		RiskProfileService:  riskProfileService,
		Config:              cfg,
		Metrics:             metrics,
		Now:                 time.Now,
		grid:                grid,
	}, nil
}

// graphResults collects engine output. Each engine writes only its own field
type graphResults struct {
	sensitivity      *domain.SensitivityGraph
	delta            *domain.DeltaGauge
	riskContribution *domain.RiskContribution
	alerts           *domain.AlertDashboard
	errs             map[domain.GraphType]error
}

func (h graphServiceHandler) GenerateGraphs(ctx context.Context, req domain.GraphRequest) (*domain.GraphResponse, error) {
	log := logger.FromContext(ctx)
	profile := domain.GetPerformanceProfile(ctx)
	run := newGraphRun(log)

	validated, err := req.Validate()
	if err != nil {
		run.transition(runStateRejected)
		h.Metrics.CountRequest(string(runStateRejected))
		return nil, err
	}
	run.transition(runStateComputing)

	results := graphResults{errs: map[domain.GraphType]error{}}
	var stats *domain.ReturnStats

	if wantsAny(*validated, domain.ImplementedGraphTypes...) {
		snapshot, fetchedStats, snapshotErr, statsErr := h.fetchInputs(ctx, *validated)
		stats = fetchedStats
		if err := ctx.Err(); err != nil {
			run.transition(runStateRejected)
			h.Metrics.CountRequest(string(runStateRejected))
			return nil, fmt.Errorf("request cancelled before compute: %w", err)
		}

		if snapshotErr != nil {
			for _, g := range domain.ImplementedGraphTypes {
				if validated.Wants(g) {
					results.errs[g] = snapshotErr
				}
			}
		} else {
			if statsErr != nil {
				for _, g := range statsGraphTypes {
					if validated.Wants(g) {
						results.errs[g] = statsErr
					}
				}
			}
			// the profile always carries delta, whichever graphs were requested;
			// a valuation failure is then reported once per requested graph
			riskProfile := h.RiskProfileService.Build(ctx, validated.Positions, *snapshot, stats)
			h.runEngines(ctx, *validated, riskProfile, &results)
		}
	}

	response := h.assemble(*validated, results, stats)
	if profile != nil {
		profile.End()
		response.Metadata.Profile = profile
	}

	if len(results.errs) > 0 {
		combined := []error{}
		for _, g := range validated.GraphTypes {
			if err, ok := results.errs[g]; ok {
				combined = append(combined, fmt.Errorf("%s: %w", g, err))
			}
		}
		log.Warnw("some graphs could not be generated", "error", multierr.Combine(combined...))
	}

	run.transition(runStateAssembled)
	h.Metrics.CountRequest(string(runStateAssembled))
	return response, nil
}

var statsGraphTypes = []domain.GraphType{
	domain.GraphTypeRiskContribution,
	domain.GraphTypeAlerts,
}

func wantsAny(req domain.ValidatedGraphRequest, graphTypes ...domain.GraphType) bool {
	for _, g := range graphTypes {
		if req.Wants(g) {
			return true
		}
	}
	return false
}

// fetchInputs gets the snapshot and, when needed, the return stats
// concurrently. Neither failure cancels the other
func (h graphServiceHandler) fetchInputs(ctx context.Context, req domain.ValidatedGraphRequest) (snapshot *domain.MarketSnapshot, stats *domain.ReturnStats, snapshotErr, statsErr error) {
	profile := domain.GetPerformanceProfile(ctx)
	assets := domain.Assets(req.Positions)

	g := errgroup.Group{}
	g.Go(func() error {
		defer profile.Track("fetch market snapshot")()
		start := time.Now()
		snapshot, snapshotErr = h.PriceFeed.GetCurrentPrices(ctx, assets)
		h.Metrics.ObserveFetch("snapshot", start, snapshotErr)
		return nil
	})
	if wantsAny(req, statsGraphTypes...) {
		g.Go(func() error {
			defer profile.Track("fetch return stats")()
			start := time.Now()
			stats, statsErr = h.ReturnStatsProvider.GetStats(ctx, assets, req.LookbackDays)
			h.Metrics.ObserveFetch("return_stats", start, statsErr)
			return nil
		})
	}
	_ = g.Wait()

	if statsErr != nil {
		stats = nil
	}
	return snapshot, stats, snapshotErr, statsErr
}

// runEngines fans the requested engines out and joins them. An engine
// error only nulls its own graph
func (h graphServiceHandler) runEngines(ctx context.Context, req domain.ValidatedGraphRequest, riskProfile *l2_service.RiskProfile, results *graphResults) {
	profile := domain.GetPerformanceProfile(ctx)

	engines := map[domain.GraphType]func() error{
		domain.GraphTypeSensitivity: func() (err error) {
			results.sensitivity, err = calculator.CalculateSensitivity(riskProfile.Positions, riskProfile.Snapshot, riskProfile.Model, h.grid)
			return err
		},
		domain.GraphTypeDelta: func() error {
			if riskProfile.DeltaErr != nil {
				return riskProfile.DeltaErr
			}
			results.delta = riskProfile.Delta
			return nil
		},
		domain.GraphTypeRiskContribution: func() (err error) {
			if riskProfile.StatsErr != nil {
				return riskProfile.StatsErr
			}
			if riskProfile.Stats == nil {
				return fmt.Errorf("return statistics were not loaded")
			}
			results.riskContribution, err = calculator.CalculateRiskContribution(riskProfile.Exposures, *riskProfile.Stats)
			return err
		},
		domain.GraphTypeAlerts: func() (err error) {
			if riskProfile.DeltaErr != nil {
				return riskProfile.DeltaErr
			}
			if riskProfile.StatsErr != nil {
				return riskProfile.StatsErr
			}
			if riskProfile.Stats == nil {
				return fmt.Errorf("return statistics were not loaded")
			}
			results.alerts, err = calculator.CalculateAlerts(calculator.AlertInputs{
				Positions:           riskProfile.Positions,
				Snapshot:            riskProfile.Snapshot,
				Delta:               *riskProfile.Delta,
				PortfolioVolatility: riskProfile.PortfolioVolatility,
				SharpeRatio:         riskProfile.SharpeRatio,
			}, h.Config.Alerts)
			return err
		},
	}

	toRun := []domain.GraphType{}
	for _, graphType := range domain.ImplementedGraphTypes {
		if _, failed := results.errs[graphType]; req.Wants(graphType) && !failed {
			toRun = append(toRun, graphType)
		}
	}

	mu := sync.Mutex{}
	g := errgroup.Group{}
	for _, graphType := range toRun {
		engine := engines[graphType]
		g.Go(func() error {
			defer profile.Track(string(graphType))()
			start := time.Now()
			err := runEngine(engine)
			h.Metrics.ObserveEngine(string(graphType), start, err)
			if err != nil {
				mu.Lock()
				results.errs[graphType] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func runEngine(engine func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panicked: %v", r)
		}
	}()
	return engine()
}

func (h graphServiceHandler) assemble(req domain.ValidatedGraphRequest, results graphResults, stats *domain.ReturnStats) *domain.GraphResponse {
	response := &domain.GraphResponse{
		Metadata: domain.GraphMetadata{
			RequestID:           uuid.New(),
			LookbackDaysUsed:    req.LookbackDays,
			GraphTypesGenerated: []domain.GraphType{},
			NotImplemented:      []domain.GraphType{},
			Errors:              []domain.GraphError{},
			Timestamp:           h.Now().UTC(),
		},
	}

	for _, g := range req.GraphTypes {
		if !g.IsImplemented() {
			response.Metadata.NotImplemented = append(response.Metadata.NotImplemented, g)
			continue
		}
		if err, ok := results.errs[g]; ok {
			kind := domain.KindOf(err)
			response.Metadata.Errors = append(response.Metadata.Errors, domain.GraphError{
				GraphType: g,
				Kind:      kind,
				Message:   err.Error(),
			})
			h.Metrics.CountEngineError(string(g), string(kind))
			continue
		}

		switch g {
		case domain.GraphTypeSensitivity:
			response.Sensitivity = results.sensitivity
		case domain.GraphTypeDelta:
			response.Delta = results.delta
		case domain.GraphTypeRiskContribution:
			response.RiskContribution = results.riskContribution
		case domain.GraphTypeAlerts:
			response.Alerts = results.alerts
		}
		response.Metadata.GraphTypesGenerated = append(response.Metadata.GraphTypesGenerated, g)
	}

	if stats != nil && stats.Observations < DataWarningObservations {
		warning := fmt.Sprintf("only %d daily observations available (requested %d day lookback); risk statistics may be unreliable", stats.Observations, req.LookbackDays)
		response.Metadata.DataWarning = &warning
	}

	return response
}
