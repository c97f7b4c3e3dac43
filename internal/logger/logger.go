package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const EnvVar = "RISKGRAPH_ENV"

func New() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	env := strings.ToLower(os.Getenv(EnvVar))
	if env == "dev" || env == "test" {
		logger, err = zap.NewDevelopment(opts...)
	} else {
		opts = append(opts, zap.Fields(zap.String("env", env)))
		logger, err = zap.NewProduction(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

// string key so a *gin.Context resolves it through c.Get
const ContextKey = "LOGGER"

func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return zap.S()
	}
	if lg, ok := ctx.Value(ContextKey).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	return zap.S()
}

func WithLogger(ctx context.Context, lg *zap.SugaredLogger) context.Context {
	//nolint:staticcheck
	return context.WithValue(ctx, ContextKey, lg)
}

// ReplaceGlobals installs New() as zap's global logger, the fallback for
// contexts without a request logger. Mains call it once at startup; the
// returned func restores the previous globals
func ReplaceGlobals() func() {
	return zap.ReplaceGlobals(New().Desugar())
}
