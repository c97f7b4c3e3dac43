package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"riskgraph/internal/domain"
	"riskgraph/internal/logger"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

const alpacaQuoteCurrency = "USD"

func NewAlpacaRepository(apiKey, apiSecret string, endpoint string) PriceRepository {
	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		BaseURL:   endpoint,
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &alpacaRepositoryHandler{
		MdClient: mdClient,
	}
}

type alpacaRepositoryHandler struct {
	MdClient *marketdata.Client
}

// alpaca keys crypto by pair, e.g. BTC/USD
func alpacaPair(symbol string) string {
	return strings.ToUpper(symbol) + "/" + alpacaQuoteCurrency
}

func (h alpacaRepositoryHandler) LatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	symbols = dedupeSymbols(symbols)
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	pairs := make([]string, 0, len(symbols))
	for _, s := range symbols {
		pairs = append(pairs, alpacaPair(s))
	}

	results, err := h.MdClient.GetLatestCryptoBars(pairs, marketdata.GetLatestCryptoBarRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get latest crypto bars: %w", err)
	}

	out := map[string]decimal.Decimal{}
	for _, s := range symbols {
		bar, ok := results[alpacaPair(s)]
		if !ok || bar.Close <= 0 {
			return nil, missingPrice(s, string(PriceSourceAlpaca))
		}
		if time.Since(bar.Timestamp) > 24*time.Hour {
			logger.FromContext(ctx).Warnf("latest alpaca bar for %s is stale (%s)", s, bar.Timestamp.UTC().Format(time.RFC3339))
		}
		out[s] = decimal.NewFromFloat(bar.Close)
	}

	return out, nil
}

func (h alpacaRepositoryHandler) ListPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	bars, err := h.MdClient.GetCryptoBars(alpacaPair(symbol), marketdata.GetCryptoBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto bars for %s: %w", symbol, err)
	}

	out := make([]domain.AssetPrice, 0, len(bars))
	for _, bar := range bars {
		out = append(out, domain.AssetPrice{
			Symbol: symbol,
			Price:  decimal.NewFromFloat(bar.Close),
			Date:   truncateToDay(bar.Timestamp),
		})
	}
	return out, nil
}
