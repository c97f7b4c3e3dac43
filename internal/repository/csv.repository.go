package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"riskgraph/internal/domain"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

const csvDateLayout = "2006-01-02"

type csvPriceRow struct {
	Symbol string  `csv:"symbol"`
	Date   string  `csv:"date"`
	Price  float64 `csv:"price"`
}

// NewCsvRepository loads a symbol,date,price file up front. Used for
// offline analysis and fixtures
func NewCsvRepository(path string) (PriceRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price csv %s: %w", path, err)
	}
	defer f.Close()

	return NewCsvRepositoryFromReader(f)
}

func NewCsvRepositoryFromReader(r io.Reader) (PriceRepository, error) {
	rows := []csvPriceRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse price csv: %w", err)
	}

	prices := map[string][]domain.AssetPrice{}
	for i, row := range rows {
		date, err := time.Parse(csvDateLayout, strings.TrimSpace(row.Date))
		if err != nil {
			return nil, fmt.Errorf("failed to parse date on row %d: %w", i+1, err)
		}
		symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
		prices[symbol] = append(prices[symbol], domain.AssetPrice{
			Symbol: symbol,
			Date:   date,
			Price:  decimal.NewFromFloat(row.Price),
		})
	}
	for symbol := range prices {
		sort.SliceStable(prices[symbol], func(i, j int) bool {
			return prices[symbol][i].Date.Before(prices[symbol][j].Date)
		})
	}

	return csvRepositoryHandler{Prices: prices}, nil
}

type csvRepositoryHandler struct {
	Prices map[string][]domain.AssetPrice
}

func (h csvRepositoryHandler) LatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, s := range dedupeSymbols(symbols) {
		series := h.Prices[s]
		if len(series) == 0 {
			return nil, missingPrice(s, string(PriceSourceCsv))
		}
		out[s] = series[len(series)-1].Price
	}
	return out, nil
}

func (h csvRepositoryHandler) ListPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	start, end = truncateToDay(start), truncateToDay(end)
	out := []domain.AssetPrice{}
	for _, p := range h.Prices[symbol] {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// WriteCsv writes prices in the format NewCsvRepository reads
func WriteCsv(w io.Writer, prices []domain.AssetPrice) error {
	rows := make([]csvPriceRow, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, csvPriceRow{
			Symbol: p.Symbol,
			Date:   p.Date.UTC().Format(csvDateLayout),
			Price:  p.Price.InexactFloat64(),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write price csv: %w", err)
	}
	return nil
}
