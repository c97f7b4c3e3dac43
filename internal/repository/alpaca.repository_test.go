package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"riskgraph/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type alpacaRequests struct {
	latestSymbols string
	barsSymbols   string
	timeframe     string
}

func newTestAlpacaServer(t *testing.T) (*httptest.Server, *alpacaRequests) {
	seen := &alpacaRequests{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1beta3/crypto/us/latest/bars", func(w http.ResponseWriter, r *http.Request) {
		seen.latestSymbols = r.URL.Query().Get("symbols")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bars": {
			"BTC/USD": {"t": "2025-03-10T00:00:00Z", "o": 99000, "h": 101000, "l": 98000, "c": 100000, "v": 12, "n": 40, "vw": 99500},
			"ETH/USD": {"t": "2025-03-10T00:00:00Z", "o": 3000, "h": 3100, "l": 2900, "c": 3050.5, "v": 80, "n": 90, "vw": 3010}
		}}`))
	})
	mux.HandleFunc("/v1beta3/crypto/us/bars", func(w http.ResponseWriter, r *http.Request) {
		seen.barsSymbols = r.URL.Query().Get("symbols")
		seen.timeframe = r.URL.Query().Get("timeframe")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bars": {"BTC/USD": [
			{"t": "2025-03-08T00:00:00Z", "o": 1, "h": 1, "l": 1, "c": 97000, "v": 1, "n": 1, "vw": 1},
			{"t": "2025-03-09T00:00:00Z", "o": 1, "h": 1, "l": 1, "c": 98500, "v": 1, "n": 1, "vw": 1}
		]}, "next_page_token": null}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, seen
}

func Test_alpacaRepositoryHandler(t *testing.T) {
	server, seen := newTestAlpacaServer(t)
	repo := NewAlpacaRepository("key", "secret", server.URL)
	ctx := context.Background()

	t.Run("latest prices by pair", func(t *testing.T) {
		got, err := repo.LatestPrices(ctx, []string{"BTC", "ETH", "BTC"})
		require.NoError(t, err)
		require.Equal(t, "BTC/USD,ETH/USD", seen.latestSymbols)
		require.True(t, decimal.NewFromInt(100000).Equal(got["BTC"]))
		require.True(t, decimal.NewFromFloat(3050.5).Equal(got["ETH"]))
	})

	t.Run("daily bars", func(t *testing.T) {
		got, err := repo.ListPrices(ctx, "BTC",
			time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		require.Equal(t, "BTC/USD", seen.barsSymbols)
		require.Equal(t, "1Day", seen.timeframe)
		require.Len(t, got, 2)
		require.Equal(t, "BTC", got[1].Symbol)
		require.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got[1].Date)
		require.True(t, decimal.NewFromInt(98500).Equal(got[1].Price))
	})
}

func Test_alpacaRepositoryHandler_missingPair(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1beta3/crypto/us/latest/bars", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bars": {}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	repo := NewAlpacaRepository("key", "secret", server.URL)
	_, err := repo.LatestPrices(context.Background(), []string{"DOGE"})
	require.Equal(t, domain.ErrorKindPriceUnavailable, domain.KindOf(err))
}

func Test_alpacaPair(t *testing.T) {
	require.Equal(t, "BTC/USD", alpacaPair("btc"))
}
