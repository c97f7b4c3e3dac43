package repository

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"riskgraph/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const priceCsv = `symbol,date,price
btc,2025-01-02,95000
BTC,2025-01-01,94000
ETH,2025-01-01,3300
ETH,2025-01-02,3400.5
`

func TestCsvRepository(t *testing.T) {
	repo, err := NewCsvRepositoryFromReader(strings.NewReader(priceCsv))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("latest prices", func(t *testing.T) {
		got, err := repo.LatestPrices(ctx, []string{"BTC", "ETH", "BTC"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.True(t, decimal.NewFromInt(95000).Equal(got["BTC"]))
		require.True(t, decimal.RequireFromString("3400.5").Equal(got["ETH"]))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := repo.LatestPrices(ctx, []string{"DOGE"})
		require.Error(t, err)
		require.Equal(t, domain.ErrorKindPriceUnavailable, domain.KindOf(err))
	})

	t.Run("list is sorted and bounded", func(t *testing.T) {
		day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		got, err := repo.ListPrices(ctx, "BTC", day, day.Add(36*time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, day, got[0].Date)

		got, err = repo.ListPrices(ctx, "BTC", day.AddDate(0, 0, 1), day.AddDate(0, 0, 3))
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("write then read", func(t *testing.T) {
		buf := &bytes.Buffer{}
		day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		err := WriteCsv(buf, []domain.AssetPrice{
			{Symbol: "SOL", Date: day, Price: decimal.NewFromInt(180)},
		})
		require.NoError(t, err)

		reread, err := NewCsvRepositoryFromReader(buf)
		require.NoError(t, err)
		got, err := reread.LatestPrices(ctx, []string{"SOL"})
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(180).Equal(got["SOL"]))
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := NewCsvRepositoryFromReader(strings.NewReader("symbol,date,price\nBTC,01/02/2025,1\n"))
		require.Error(t, err)
	})
}
