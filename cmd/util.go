package cmd

import (
	"database/sql"
	"fmt"
	"log"

	"riskgraph/api"
	"riskgraph/internal/repository"
	l1_service "riskgraph/internal/service/l1"
	l2_service "riskgraph/internal/service/l2"
	l3_service "riskgraph/internal/service/l3"
	"riskgraph/internal/telemetry"
	"riskgraph/internal/util"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	Config     *util.Config
	ApiHandler *api.ApiHandler

	GraphService    l3_service.GraphService
	PriceRepository repository.PriceRepository
	Metrics         *telemetry.Metrics

	// nil unless the config needs them
	Db    *sql.DB
	Redis *redis.Client
}

func CloseDependencies(deps *Dependencies) {
	if deps.Db != nil {
		if err := deps.Db.Close(); err != nil {
			log.Printf("failed to close db: %v", err)
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}
}

func OpenDb(cfg util.Config) (*sql.DB, error) {
	dbConn, err := sql.Open("postgres", cfg.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return dbConn, nil
}

// NewPriceRepository builds the configured price source. db is only used
// by the postgres source
func NewPriceRepository(cfg util.Config, source repository.PriceSource, db *sql.DB) (repository.PriceRepository, error) {
	switch source {
	case repository.PriceSourceCsv:
		return repository.NewCsvRepository(cfg.Csv.Path)
	case repository.PriceSourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres price source needs a db connection")
		}
		return repository.NewCryptoPriceRepository(db, cfg.PriceCacheTtl), nil
	case repository.PriceSourceAlpaca:
		return repository.NewAlpacaRepository(cfg.Alpaca.ApiKey, cfg.Alpaca.ApiSecret, cfg.Alpaca.Endpoint), nil
	case repository.PriceSourceYahoo:
		return repository.NewYahooRepository(), nil
	}
	return nil, fmt.Errorf("unknown price source %q", source)
}

func InitializeDependencies() (*Dependencies, error) {
	cfg, err := util.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return InitializeDependenciesFromConfig(*cfg)
}

func InitializeDependenciesFromConfig(cfg util.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  &cfg,
		Metrics: telemetry.NewMetrics(),
	}

	var err error
	if cfg.PriceSource == repository.PriceSourcePostgres {
		deps.Db, err = OpenDb(cfg)
		if err != nil {
			return nil, err
		}
	}

	priceRepository, err := NewPriceRepository(cfg, cfg.PriceSource, deps.Db)
	if err != nil {
		CloseDependencies(deps)
		return nil, fmt.Errorf("failed to create price repository: %w", err)
	}
	deps.PriceRepository = priceRepository

	statsCache := repository.NewNoopStatsCacheRepository()
	if cfg.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		statsCache = repository.NewRedisStatsCacheRepository(deps.Redis, cfg.Redis.Ttl)
	}

	priceFeed := l1_service.NewPriceFeed(priceRepository, cfg.Upstream)
	returnStatsProvider := l1_service.NewReturnStatsProvider(priceRepository, statsCache, cfg.ReturnStats, cfg.Upstream)
	riskProfileService := l2_service.NewRiskProfileService(cfg.Engine, nil)

	graphService, err := l3_service.NewGraphService(priceFeed, returnStatsProvider, riskProfileService, cfg.Engine, deps.Metrics)
	if err != nil {
		CloseDependencies(deps)
		return nil, err
	}
	deps.GraphService = graphService

	deps.ApiHandler = &api.ApiHandler{
		GraphService:   graphService,
		Metrics:        deps.Metrics,
		JwtDecodeToken: cfg.Jwt.Secret,
		Profile:        cfg.Profile,
	}

	return deps, nil
}
