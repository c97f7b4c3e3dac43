package util

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"riskgraph/internal/calculator"
	"riskgraph/internal/logger"
	"riskgraph/internal/repository"
	l1_service "riskgraph/internal/service/l1"

	"github.com/spf13/viper"
)

const EnvPrefix = "RISKGRAPH"

type Config struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
	// attach the per-request performance profile to the response metadata
	Profile bool `mapstructure:"profile"`

	Jwt         JwtConfig              `mapstructure:"jwt"`
	PriceSource repository.PriceSource `mapstructure:"price_source"`
	Db          DbSecrets              `mapstructure:"db"`
	Alpaca      AlpacaSecrets          `mapstructure:"alpaca"`
	Redis       RedisConfig            `mapstructure:"redis"`
	Csv         CsvConfig              `mapstructure:"csv"`

	PriceCacheTtl time.Duration                `mapstructure:"price_cache_ttl"`
	Upstream      l1_service.UpstreamConfig    `mapstructure:"upstream"`
	ReturnStats   l1_service.ReturnStatsConfig `mapstructure:"return_stats"`
	Engine        calculator.EngineConfig      `mapstructure:"engine"`
}

type JwtConfig struct {
	// empty disables auth
	Secret string `mapstructure:"secret"`
}

type DbSecrets struct {
	Host      string `mapstructure:"host"`
	User      string `mapstructure:"user"`
	Port      string `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	EnableSsl bool   `mapstructure:"enable_ssl"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

type AlpacaSecrets struct {
	ApiKey    string `mapstructure:"api_key"`
	ApiSecret string `mapstructure:"api_secret"`
	Endpoint  string `mapstructure:"endpoint"`
}

type RedisConfig struct {
	// empty disables the stats cache
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Ttl      time.Duration `mapstructure:"ttl"`
}

type CsvConfig struct {
	Path string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	engine := calculator.DefaultEngineConfig()
	upstream := l1_service.DefaultUpstreamConfig()
	returnStats := l1_service.DefaultReturnStatsConfig()

	defaults := map[string]interface{}{
		"env":               "dev",
		"port":              3009,
		"profile":           false,
		"jwt.secret":        "",
		"price_source":      string(repository.PriceSourceYahoo),
		"db.host":           "localhost",
		"db.user":           "postgres",
		"db.port":           "5440",
		"db.password":       "postgres",
		"db.database":       "postgres",
		"db.enable_ssl":     false,
		"alpaca.api_key":    "",
		"alpaca.api_secret": "",
		"alpaca.endpoint":   "https://data.alpaca.markets",
		"redis.addr":        "",
		"redis.password":    "",
		"redis.db":          0,
		"redis.ttl":         15 * time.Minute,
		"csv.path":          "prices.csv",
		"price_cache_ttl":   30 * time.Second,

		"upstream.rate_limit":        upstream.RateLimit,
		"upstream.burst":             upstream.Burst,
		"upstream.failure_threshold": upstream.FailureThreshold,
		"upstream.open_timeout":      upstream.OpenTimeout,
		"upstream.call_timeout":      upstream.CallTimeout,

		"return_stats.risk_free_rate":    returnStats.RiskFreeRate,
		"return_stats.max_fill_days":     returnStats.MaxFillDays,
		"return_stats.fetch_concurrency": returnStats.FetchConcurrency,

		"engine.exposure_convention":             string(engine.ExposureConvention),
		"engine.sensitivity.shocks_pct":          engine.Sensitivity.ShocksPct,
		"engine.sensitivity.bound_pct":           engine.Sensitivity.BoundPct,
		"engine.sensitivity.step_pct":            engine.Sensitivity.StepPct,
		"engine.delta.neutral_band":              engine.Delta.NeutralBand,
		"engine.delta.high_band":                 engine.Delta.HighBand,
		"engine.alerts.delta_zero_score_at":      engine.Alerts.DeltaZeroScoreAt,
		"engine.alerts.volatility_low":           engine.Alerts.VolatilityLow,
		"engine.alerts.volatility_high":          engine.Alerts.VolatilityHigh,
		"engine.alerts.sharpe_full_score_at":     engine.Alerts.SharpeFullScoreAt,
		"engine.alerts.leverage_zero_score_at":   engine.Alerts.LeverageZeroScoreAt,
		"engine.alerts.maintenance_margin":       engine.Alerts.MaintenanceMargin,
		"engine.alerts.safe_distance_pct":        engine.Alerts.SafeDistancePct,
		"engine.alerts.high_risk_distance_pct":   engine.Alerts.HighRiskDistancePct,
		"engine.alerts.rebalance_threshold":      engine.Alerts.RebalanceThreshold,
		"engine.alerts.rebalance_high_threshold": engine.Alerts.RebalanceHighThreshold,
		"engine.alerts.status_bands.excellent":   engine.Alerts.StatusBands.Excellent,
		"engine.alerts.status_bands.good":        engine.Alerts.StatusBands.Good,
		"engine.alerts.status_bands.fair":        engine.Alerts.StatusBands.Fair,
		"engine.alerts.status_bands.warning":     engine.Alerts.StatusBands.Warning,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// LoadConfig reads config.yaml, or config-<env>.yaml when RISKGRAPH_ENV is
// set, from the working directory and any extra paths. Every key can be
// overridden with RISKGRAPH_<KEY>, e.g. RISKGRAPH_REDIS_ADDR
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	name := "config"
	if env := os.Getenv(logger.EnvVar); env != "" {
		name = "config-" + strings.ToLower(env)
		v.SetDefault("env", strings.ToLower(env))
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	switch c.PriceSource {
	case repository.PriceSourceCsv:
		if c.Csv.Path == "" {
			return fmt.Errorf("csv.path is required for the csv price source")
		}
	case repository.PriceSourcePostgres:
	case repository.PriceSourceAlpaca:
		if c.Alpaca.ApiKey == "" || c.Alpaca.ApiSecret == "" {
			return fmt.Errorf("alpaca.api_key and alpaca.api_secret are required for the alpaca price source")
		}
	case repository.PriceSourceYahoo:
	default:
		return fmt.Errorf("unknown price_source %q", c.PriceSource)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}
