package l1_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"riskgraph/internal/domain"
	"riskgraph/internal/logger"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

type UpstreamConfig struct {
	// requests per second allowed against the price source, <= 0 disables
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
	// consecutive failures before the breaker opens
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
	CallTimeout      time.Duration `mapstructure:"call_timeout"`
}

func DefaultUpstreamConfig() UpstreamConfig {
	return UpstreamConfig{
		RateLimit:        10,
		Burst:            5,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		CallTimeout:      10 * time.Second,
	}
}

// upstreamGuard wraps calls to a price source with a rate limiter and a
// circuit breaker. Errors that describe the data (unknown symbol, not enough
// history) don't count towards tripping the breaker
type upstreamGuard struct {
	breaker     *gobreaker.CircuitBreaker
	limiter     *rate.Limiter
	callTimeout time.Duration
}

func newUpstreamGuard(name string, cfg UpstreamConfig) *upstreamGuard {
	st := gobreaker.Settings{Name: name}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= max(cfg.FailureThreshold, 1)
	}
	st.Timeout = cfg.OpenTimeout
	st.IsSuccessful = func(err error) bool {
		return err == nil || domain.KindOf(err) != domain.ErrorKindInternal || errors.Is(err, context.Canceled)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.FromContext(context.Background()).Warnf("circuit breaker %s changed from %s to %s", name, from, to)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}

	return &upstreamGuard{
		breaker:     gobreaker.NewCircuitBreaker(st),
		limiter:     limiter,
		callTimeout: cfg.CallTimeout,
	}
}

func (g *upstreamGuard) execute(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("price source unavailable: %w", err)
	}
	return out, err
}
