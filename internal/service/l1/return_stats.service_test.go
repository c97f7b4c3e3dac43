package l1_service

import (
	"context"
	"testing"
	"time"

	"riskgraph/internal/domain"
	"riskgraph/internal/repository"
	mock_repository "riskgraph/internal/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func dailyPrices(symbol string, end time.Time, closes ...float64) []domain.AssetPrice {
	out := []domain.AssetPrice{}
	start := end.AddDate(0, 0, -(len(closes) - 1))
	for i, c := range closes {
		out = append(out, domain.AssetPrice{
			Symbol: symbol,
			Date:   start.AddDate(0, 0, i),
			Price:  decimal.NewFromFloat(c),
		})
	}
	return out
}

func Test_returnStatsHandler_GetStats(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	today := dayOf(now)

	newHandler := func(t *testing.T) (returnStatsHandler, *mock_repository.MockPriceRepository, *mock_repository.MockStatsCacheRepository) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		statsCache := mock_repository.NewMockStatsCacheRepository(ctrl)
		return returnStatsHandler{
			PriceRepository: priceRepository,
			StatsCache:      statsCache,
			Config:          DefaultReturnStatsConfig(),
			guard:           newUpstreamGuard("test", UpstreamConfig{}),
			Now:             func() time.Time { return now },
		}, priceRepository, statsCache
	}

	t.Run("computes and caches stats", func(t *testing.T) {
		handler, priceRepository, statsCache := newHandler(t)
		key := repository.StatsCacheKey([]string{"BTC", "ETH"}, 9, today)

		statsCache.EXPECT().Get(gomock.Any(), key).Return(nil, nil)
		priceRepository.EXPECT().
			ListPrices(gomock.Any(), "BTC", today.AddDate(0, 0, -23), today).
			Return(dailyPrices("BTC", today, 100, 102, 101, 105, 104, 108, 107, 110, 109, 112), nil)
		priceRepository.EXPECT().
			ListPrices(gomock.Any(), "ETH", today.AddDate(0, 0, -23), today).
			Return(dailyPrices("ETH", today, 10, 10.1, 10.4, 10.2, 10.6, 10.5, 10.9, 11, 10.8, 11.2), nil)
		statsCache.EXPECT().Set(gomock.Any(), key, gomock.Any()).Return(nil)

		stats, err := handler.GetStats(context.Background(), []string{"BTC", "ETH"}, 9)
		require.NoError(t, err)
		require.Equal(t, 9, stats.Observations)
		require.Equal(t, 9, stats.LookbackDays)
		require.Equal(t, 365.0, stats.PeriodsPerYear)
		require.Len(t, stats.Series["BTC"].Returns, 9)
		require.InDelta(t, 0.02, stats.Series["BTC"].Returns[0], 1e-12)
		require.Greater(t, stats.Series["ETH"].AnnualizedVolatility, 0.0)
		require.NoError(t, stats.Covariance.Validate())

		btcVar, err := stats.Covariance.Get("BTC", "BTC")
		require.NoError(t, err)
		vol := stats.Series["BTC"].AnnualizedVolatility
		require.InDelta(t, vol*vol, btcVar, 1e-12)
	})

	t.Run("cache hit skips the price source", func(t *testing.T) {
		handler, _, statsCache := newHandler(t)
		cached := &domain.ReturnStats{LookbackDays: 30, Observations: 30}
		statsCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cached, nil)

		stats, err := handler.GetStats(context.Background(), []string{"BTC"}, 30)
		require.NoError(t, err)
		require.Equal(t, cached, stats)
	})

	t.Run("history ending yesterday covers the minimum lookback", func(t *testing.T) {
		handler, priceRepository, statsCache := newHandler(t)
		yesterday := today.AddDate(0, 0, -1)
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 + float64(i%5)
		}

		statsCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		priceRepository.EXPECT().
			ListPrices(gomock.Any(), "BTC", today.AddDate(0, 0, -21), today).
			Return(dailyPrices("BTC", yesterday, closes...), nil)
		statsCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		stats, err := handler.GetStats(context.Background(), []string{"BTC"}, 7)
		require.NoError(t, err)
		require.Equal(t, 7, stats.Observations)
		require.Len(t, stats.Series["BTC"].Returns, 7)
		// last return is yesterday's close over the day before
		require.InDelta(t, closes[29]/closes[28]-1, stats.Series["BTC"].Returns[6], 1e-12)
	})

	t.Run("window ends on the last close every asset has", func(t *testing.T) {
		handler, priceRepository, statsCache := newHandler(t)
		statsCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		priceRepository.EXPECT().
			ListPrices(gomock.Any(), "BTC", gomock.Any(), gomock.Any()).
			Return(dailyPrices("BTC", today, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10), nil)
		priceRepository.EXPECT().
			ListPrices(gomock.Any(), "ETH", gomock.Any(), gomock.Any()).
			Return(dailyPrices("ETH", today.AddDate(0, 0, -2), 2, 3, 4, 5, 6, 7, 8, 9, 10, 11), nil)
		statsCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		stats, err := handler.GetStats(context.Background(), []string{"BTC", "ETH"}, 7)
		require.NoError(t, err)
		require.Equal(t, 7, stats.Observations)
		// BTC ends two days early: its closes 1..8 give returns ending at 8/7
		require.InDelta(t, 8.0/7-1, stats.Series["BTC"].Returns[6], 1e-12)
		require.InDelta(t, 11.0/10-1, stats.Series["ETH"].Returns[6], 1e-12)
	})

	t.Run("stale history", func(t *testing.T) {
		handler, priceRepository, statsCache := newHandler(t)
		statsCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		priceRepository.EXPECT().
			ListPrices(gomock.Any(), "OLD", gomock.Any(), gomock.Any()).
			Return(dailyPrices("OLD", today.AddDate(0, 0, -10), 1, 2, 3, 4, 5, 6, 7, 8, 9, 10), nil)

		_, err := handler.GetStats(context.Background(), []string{"OLD"}, 7)
		require.Equal(t, domain.ErrorKindDataUnavailable, domain.KindOf(err))
		require.ErrorContains(t, err, "more than 7 days old")
	})

	t.Run("not enough history", func(t *testing.T) {
		handler, priceRepository, statsCache := newHandler(t)
		statsCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		priceRepository.EXPECT().
			ListPrices(gomock.Any(), "NEW", gomock.Any(), gomock.Any()).
			Return(dailyPrices("NEW", today, 1, 2, 3), nil)

		_, err := handler.GetStats(context.Background(), []string{"NEW"}, 30)
		require.Error(t, err)
		require.Equal(t, domain.ErrorKindDataUnavailable, domain.KindOf(err))
		require.ErrorContains(t, err, "NEW")
	})
}

func Test_alignCloses(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)

	t.Run("forward fills gaps and drops leading days", func(t *testing.T) {
		btc := dailyPrices("BTC", end, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
		// drop day 4 and give ETH a late start
		btc = append(btc[:4], btc[5:]...)
		eth := dailyPrices("ETH", end, 2, 3, 4, 5, 6, 7, 8, 9, 10)

		got, err := alignCloses([]string{"BTC", "ETH"}, [][]domain.AssetPrice{btc, eth}, start, end, 7)
		require.NoError(t, err)
		require.Equal(t, []float64{2, 3, 4, 4, 6, 7, 8, 9, 10}, got["BTC"])
		require.Equal(t, []float64{2, 3, 4, 5, 6, 7, 8, 9, 10}, got["ETH"])
	})

	t.Run("gap too long", func(t *testing.T) {
		longEnd := start.AddDate(0, 0, 20)
		prices := append(
			dailyPrices("BTC", start.AddDate(0, 0, 8), 1, 2, 3, 4, 5, 6, 7, 8, 9),
			dailyPrices("BTC", longEnd, 1, 2)...,
		)
		_, err := alignCloses([]string{"BTC"}, [][]domain.AssetPrice{prices}, start, longEnd, 7)
		require.Error(t, err)
		require.Equal(t, domain.ErrorKindDataUnavailable, domain.KindOf(err))
	})
}
