package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"riskgraph/cmd"
	"riskgraph/internal/domain"
	"riskgraph/internal/repository"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	requestFile  string
	outputFormat string
	priceSource  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate graphs for a request file",
	Long: `Reads a graph request (the same json the POST /graphs endpoint takes) and
prints the response.

Examples:
  riskgraph analyze --file book.json
  riskgraph analyze --file - --output yaml < book.json
  riskgraph analyze --file book.json --source csv`,
	RunE: runAnalyze,
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, renderCmd} {
		c.Flags().StringVarP(&requestFile, "file", "f", "-", "Request json file, - for stdin")
		c.Flags().StringVar(&priceSource, "source", "", "Override the configured price source: csv, postgres, alpaca, yahoo")
	}
	analyzeCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json, yaml")
}

func readRequest(path string) (*domain.GraphRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open request file: %w", err)
		}
		defer f.Close()
		r = f
	}

	req := domain.GraphRequest{}
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &req, nil
}

func generate(ctx context.Context) (*domain.GraphResponse, error) {
	req, err := readRequest(requestFile)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if priceSource != "" {
		cfg.PriceSource = repository.PriceSource(priceSource)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	deps, err := cmd.InitializeDependenciesFromConfig(*cfg)
	if err != nil {
		return nil, err
	}
	defer cmd.CloseDependencies(deps)

	return deps.GraphService.GenerateGraphs(ctx, *req)
}

// formatResponse keeps the json field names for yaml by round tripping
// through a generic value
func formatResponse(response *domain.GraphResponse, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(response, "", "  ")
	case "yaml":
		bytes, err := json.Marshal(response)
		if err != nil {
			return nil, err
		}
		var generic interface{}
		if err := json.Unmarshal(bytes, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func runAnalyze(c *cobra.Command, args []string) error {
	response, err := generate(c.Context())
	if err != nil {
		return err
	}
	out, err := formatResponse(response, outputFormat)
	if err != nil {
		return err
	}
	_, err = c.OutOrStdout().Write(append(out, '\n'))
	return err
}
