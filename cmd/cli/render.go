package main

import (
	"fmt"
	"os"
	"path/filepath"

	"riskgraph/internal/render"

	"github.com/spf13/cobra"
)

var outDir string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render graphs for a request file as png charts",
	Long: `Generates graphs like analyze, then writes one png per chartable graph
into the output directory.

Example:
  riskgraph render --file book.json --out-dir ./charts`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the png files")
}

func runRender(c *cobra.Command, args []string) error {
	response, err := generate(c.Context())
	if err != nil {
		return err
	}
	for _, graphErr := range response.Metadata.Errors {
		fmt.Fprintf(c.ErrOrStderr(), "skipping %s: %s\n", graphErr.GraphType, graphErr.Message)
	}

	charts, err := render.Charts(*response)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	for graphType, chart := range charts {
		path := filepath.Join(outDir, string(graphType)+".png")
		if err := os.WriteFile(path, chart, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintln(c.OutOrStdout(), path)
	}
	return nil
}
