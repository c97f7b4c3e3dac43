package repository

import (
	"context"
	"time"

	"riskgraph/internal/domain"

	"github.com/shopspring/decimal"
)

type PriceSource string

const (
	PriceSourceCsv      PriceSource = "csv"
	PriceSourcePostgres PriceSource = "postgres"
	PriceSourceAlpaca   PriceSource = "alpaca"
	PriceSourceYahoo    PriceSource = "yahoo"
)

// PriceRepository is a source of daily USD closes for crypto symbols like
// "BTC". Symbols a source doesn't know yield domain.PriceUnavailableError
type PriceRepository interface {
	LatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
	// ListPrices returns daily closes in [start, end], oldest first
	ListPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error)
}

func dedupeSymbols(symbols []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func missingPrice(symbol, source string) error {
	return domain.PriceUnavailableError{Asset: symbol, Reason: "no price from " + source}
}
