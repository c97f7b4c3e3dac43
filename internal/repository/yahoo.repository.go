package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"riskgraph/internal/domain"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

// yahoo lists crypto as BTC-USD
func yahooSymbol(symbol string) string {
	return strings.ToUpper(symbol) + "-USD"
}

func NewYahooRepository() PriceRepository {
	return yahooRepositoryHandler{
		Now: time.Now,
	}
}

type yahooRepositoryHandler struct {
	Now func() time.Time
}

func (h yahooRepositoryHandler) ListPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   yahooSymbol(symbol),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := []domain.AssetPrice{}
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		price := bar.AdjClose
		if price.IsZero() {
			price = bar.Close
		}
		out = append(out, domain.AssetPrice{
			Symbol: symbol,
			Date:   truncateToDay(time.Unix(int64(bar.Timestamp), 0)),
			Price:  price,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return out, nil
}

// LatestPrices uses the last daily bar of the past few days, which for
// crypto is the running close of today
func (h yahooRepositoryHandler) LatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	end := h.Now()
	start := end.AddDate(0, 0, -5)

	out := map[string]decimal.Decimal{}
	for _, s := range dedupeSymbols(symbols) {
		prices, err := h.ListPrices(ctx, s, start, end)
		if err != nil {
			return nil, err
		}
		if len(prices) == 0 || !prices[len(prices)-1].Price.IsPositive() {
			return nil, missingPrice(s, string(PriceSourceYahoo))
		}
		out[s] = prices[len(prices)-1].Price
	}
	return out, nil
}
