package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"riskgraph/internal/db/models/postgres/public/model"
	. "riskgraph/internal/db/models/postgres/public/table"
	"riskgraph/internal/domain"

	. "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/shopspring/decimal"
)

type CryptoPriceRepository interface {
	PriceRepository
	Add(tx *sql.Tx, prices []model.CryptoPrice) error
}

type latestPriceCache map[string]decimal.Decimal

func NewCryptoPriceRepository(db *sql.DB, cacheTtl time.Duration) CryptoPriceRepository {
	return &cryptoPriceRepositoryHandler{
		Db:        db,
		Cache:     latestPriceCache{},
		CacheTtl:  cacheTtl,
		ReadMutex: &sync.RWMutex{},
	}
}

type cryptoPriceRepositoryHandler struct {
	Db        *sql.DB
	Cache     latestPriceCache
	CacheTtl  time.Duration
	CachedAt  time.Time
	ReadMutex *sync.RWMutex
}

func (h *cryptoPriceRepositoryHandler) getFromCache(symbol string) (decimal.Decimal, bool) {
	h.ReadMutex.RLock()
	defer h.ReadMutex.RUnlock()
	if h.CacheTtl <= 0 || time.Since(h.CachedAt) > h.CacheTtl {
		return decimal.Zero, false
	}
	price, ok := h.Cache[symbol]
	return price, ok
}

func (h *cryptoPriceRepositoryHandler) addToCache(prices map[string]decimal.Decimal) {
	h.ReadMutex.Lock()
	defer h.ReadMutex.Unlock()
	if time.Since(h.CachedAt) > h.CacheTtl {
		h.Cache = latestPriceCache{}
		h.CachedAt = time.Now()
	}
	for symbol, price := range prices {
		h.Cache[symbol] = price
	}
}

func (h *cryptoPriceRepositoryHandler) Add(tx *sql.Tx, prices []model.CryptoPrice) error {
	if len(prices) == 0 {
		return nil
	}
	query := CryptoPrice.
		INSERT(CryptoPrice.MutableColumns).
		MODELS(prices).
		ON_CONFLICT(
			CryptoPrice.Symbol, CryptoPrice.Date,
		).DO_UPDATE(
		SET(
			CryptoPrice.Price.SET(CryptoPrice.EXCLUDED.Price),
			CryptoPrice.Source.SET(CryptoPrice.EXCLUDED.Source),
		),
	)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add crypto prices to db: %w", err)
	}

	return nil
}

func (h *cryptoPriceRepositoryHandler) latestPrice(ctx context.Context, db qrm.Queryable, symbol string) (*model.CryptoPrice, error) {
	query := CryptoPrice.
		SELECT(CryptoPrice.AllColumns).
		WHERE(CryptoPrice.Symbol.EQ(String(symbol))).
		ORDER_BY(CryptoPrice.Date.DESC()).
		LIMIT(1)

	result := model.CryptoPrice{}
	err := query.QueryContext(ctx, db, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (h *cryptoPriceRepositoryHandler) LatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	fetched := map[string]decimal.Decimal{}
	for _, s := range dedupeSymbols(symbols) {
		if price, ok := h.getFromCache(s); ok {
			out[s] = price
			continue
		}
		result, err := h.latestPrice(ctx, h.Db, s)
		if err != nil {
			if err == qrm.ErrNoRows {
				return nil, missingPrice(s, string(PriceSourcePostgres))
			}
			return nil, fmt.Errorf("failed to query latest price for %s: %w", s, err)
		}
		out[s] = decimal.NewFromFloat(result.Price)
		fetched[s] = out[s]
	}

	if len(fetched) > 0 {
		h.addToCache(fetched)
	}
	return out, nil
}

func (h *cryptoPriceRepositoryHandler) ListPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	query := CryptoPrice.
		SELECT(CryptoPrice.AllColumns).
		WHERE(
			AND(
				CryptoPrice.Symbol.EQ(String(symbol)),
				CryptoPrice.Date.BETWEEN(DateT(start), DateT(end)),
			),
		).
		ORDER_BY(CryptoPrice.Date.ASC())

	result := []model.CryptoPrice{}
	err := query.QueryContext(ctx, h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", symbol, err)
	}

	out := []domain.AssetPrice{}
	for _, p := range result {
		out = append(out, domain.AssetPrice{
			Symbol: p.Symbol,
			Date:   p.Date,
			Price:  decimal.NewFromFloat(p.Price),
		})
	}

	return out, nil
}
