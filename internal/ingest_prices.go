package internal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"riskgraph/internal/db/models/postgres/public/model"
	"riskgraph/internal/logger"
	"riskgraph/internal/repository"

	"go.uber.org/multierr"
)

// IngestPrices copies daily closes for symbol from source into the
// crypto_price table. Re-ingesting a day overwrites it
func IngestPrices(
	ctx context.Context,
	tx *sql.Tx,
	symbol string,
	start, end time.Time,
	source repository.PriceRepository,
	sourceName repository.PriceSource,
	store repository.CryptoPriceRepository,
) (int, error) {
	symbol = strings.ToUpper(symbol)
	prices, err := source.ListPrices(ctx, symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	models := make([]model.CryptoPrice, 0, len(prices))
	now := time.Now().UTC()
	for _, p := range prices {
		models = append(models, model.CryptoPrice{
			Symbol:    symbol,
			Date:      p.Date,
			Price:     p.Price.InexactFloat64(),
			Source:    string(sourceName),
			CreatedAt: now,
		})
	}

	if err := store.Add(tx, models); err != nil {
		return 0, err
	}
	return len(models), nil
}

// IngestUniverse ingests every symbol in its own transaction so one bad
// symbol doesn't roll back the rest
func IngestUniverse(
	ctx context.Context,
	db *sql.DB,
	symbols []string,
	start, end time.Time,
	source repository.PriceRepository,
	sourceName repository.PriceSource,
	store repository.CryptoPriceRepository,
) error {
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to ingest")
	}
	log := logger.FromContext(ctx)

	var errs error
	failed := 0
	for _, symbol := range symbols {
		err := ingestInTx(ctx, db, func(tx *sql.Tx) error {
			n, err := IngestPrices(ctx, tx, symbol, start, end, source, sourceName, store)
			if err == nil {
				log.Infow("ingested prices", "symbol", symbol, "rows", n, "source", sourceName)
			}
			return err
		})
		if err != nil {
			failed++
			log.Warnw("failed to ingest prices", "symbol", symbol, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}

	if errs != nil {
		return fmt.Errorf("failed to ingest %d/%d symbols: %w", failed, len(symbols), errs)
	}
	return nil
}

func ingestInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
