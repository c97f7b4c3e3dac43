package main

import (
	"fmt"
	"strings"
	"time"

	"riskgraph/cmd"
	"riskgraph/internal"
	"riskgraph/internal/repository"
	"riskgraph/internal/util"

	"github.com/spf13/cobra"
)

var (
	ingestSymbols string
	ingestStart   string
	ingestEnd     string
	ingestFrom    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Store daily closes in postgres",
	Long: `Copies daily closes from an upstream source into the crypto_price table
so the postgres price source can serve history offline.

Example:
  riskgraph ingest --symbols BTC,ETH --start 2024-01-01 --from yahoo`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSymbols, "symbols", "BTC,ETH", "Comma separated symbols")
	ingestCmd.Flags().StringVar(&ingestStart, "start", "", "Start date, YYYY-MM-DD")
	ingestCmd.Flags().StringVar(&ingestEnd, "end", "", "End date, YYYY-MM-DD, defaults to today")
	ingestCmd.Flags().StringVar(&ingestFrom, "from", string(repository.PriceSourceYahoo), "Source to copy from: yahoo, alpaca, csv")
	_ = ingestCmd.MarkFlagRequired("start")
}

func runIngest(c *cobra.Command, args []string) error {
	start, end, err := util.ParseDateRange(ingestStart, ingestEnd, time.Now().UTC())
	if err != nil {
		return err
	}
	source := repository.PriceSource(ingestFrom)
	if source == repository.PriceSourcePostgres {
		return fmt.Errorf("cannot ingest from postgres into postgres")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := cmd.OpenDb(*cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	upstream, err := cmd.NewPriceRepository(*cfg, source, nil)
	if err != nil {
		return err
	}

	symbols := []string{}
	for _, s := range strings.Split(ingestSymbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}

	return internal.IngestUniverse(
		c.Context(),
		db,
		symbols,
		start,
		end,
		upstream,
		source,
		repository.NewCryptoPriceRepository(db, 0),
	)
}
