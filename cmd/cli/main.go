package main

import (
	"fmt"
	"os"

	"riskgraph/internal/logger"
	"riskgraph/internal/util"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "riskgraph",
	Short: "Portfolio risk graphs for crypto books",
	Long: `riskgraph computes sensitivity, delta, risk contribution and alert
graphs for a portfolio of spot, futures and lending positions.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-dir", "", "Extra directory to search for config.yaml")
	rootCmd.AddCommand(analyzeCmd, renderCmd, ingestCmd)
}

func loadConfig() (*util.Config, error) {
	if configPath == "" {
		return util.LoadConfig()
	}
	return util.LoadConfig(configPath)
}

func main() {
	restore := logger.ReplaceGlobals()
	err := rootCmd.Execute()
	restore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
