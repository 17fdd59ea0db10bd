package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devpatil/unigraph/internal/ingest"
)

var seedWipe bool

var seedCmd = &cobra.Command{
	Use:   "seed <csv-file>",
	Short: "Load the unicorn startups CSV into the graph",
	Long: `Parse the startup CSV export and upsert every company with its
sector, subsector, locations, and investors. Safe to re-run: nodes
merge on their unique keys and duplicate edges are skipped.

Example:
  unigraph seed data/unicorns.csv --wipe`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedWipe, "wipe", false, "delete existing graph data first")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	theme := defaultTheme

	rows, err := ingest.ParseFile(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no company rows in %s", args[0])
	}

	if seedWipe {
		if err := dbClient.WipeData(ctx); err != nil {
			return fmt.Errorf("wipe graph: %w", err)
		}
		fmt.Println(theme.hintStyle().Render("existing graph data removed"))
	}

	loaded := 0
	for _, row := range rows {
		if err := dbClient.LoadCompany(ctx, row); err != nil {
			return fmt.Errorf("load %s: %w", row.Name, err)
		}
		loaded++
	}

	stats, err := dbClient.GraphStats(ctx)
	if err != nil {
		return fmt.Errorf("graph stats: %w", err)
	}

	fmt.Println(theme.successStyle().Render(fmt.Sprintf("loaded %d companies", loaded)))
	fmt.Printf("graph now holds %d companies, %d investors, %d sectors, %d locations, %d relationships\n",
		stats.Companies, stats.Investors, stats.Sectors, stats.Locations, stats.Relationships)
	return nil
}
