package l1_service

import (
	"context"
	"fmt"
	"time"

	"riskgraph/internal/domain"
	"riskgraph/internal/repository"

	"github.com/shopspring/decimal"
)

type PriceFeed interface {
	GetCurrentPrices(ctx context.Context, assets []string) (*domain.MarketSnapshot, error)
}

type priceFeedHandler struct {
	PriceRepository repository.PriceRepository
	guard           *upstreamGuard
	Now             func() time.Time
}

func NewPriceFeed(priceRepository repository.PriceRepository, cfg UpstreamConfig) PriceFeed {
	return &priceFeedHandler{
		PriceRepository: priceRepository,
		guard:           newUpstreamGuard("price-feed", cfg),
		Now:             time.Now,
	}
}

func (h priceFeedHandler) GetCurrentPrices(ctx context.Context, assets []string) (*domain.MarketSnapshot, error) {
	result, err := h.guard.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return h.PriceRepository.LatestPrices(ctx, assets)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get current prices: %w", err)
	}
	latest, _ := result.(map[string]decimal.Decimal)

	prices := make(map[string]float64, len(assets))
	for _, asset := range assets {
		price, ok := latest[asset]
		if !ok {
			return nil, domain.PriceUnavailableError{Asset: asset, Reason: "not returned by price source"}
		}
		if !price.IsPositive() {
			return nil, domain.PriceUnavailableError{Asset: asset, Reason: fmt.Sprintf("non-positive price %s", price.String())}
		}
		prices[asset] = price.InexactFloat64()
	}

	return &domain.MarketSnapshot{
		Prices: prices,
		AsOf:   h.Now().UTC(),
	}, nil
}
