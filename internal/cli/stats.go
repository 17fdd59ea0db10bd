package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devpatil/unigraph/internal/models"
)

var (
	statsGrowth  bool
	statsSectors bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show graph-wide statistics",
	Long: `Print node and relationship counts, per-sector and per-city
aggregates, and optionally the sector taxonomy and the
fastest-growing companies since entry.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsGrowth, "growth", false, "include valuation growth leaders")
	statsCmd.Flags().BoolVar(&statsSectors, "sectors", false, "include the sector/subsector taxonomy")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	theme := defaultTheme

	stats, err := dbClient.GraphStats(ctx)
	if err != nil {
		return fmt.Errorf("graph stats: %w", err)
	}

	fmt.Println(theme.headingStyle().Render("Graph"))
	fmt.Printf("  Companies:      %d\n", stats.Companies)
	fmt.Printf("  Investors:      %d\n", stats.Investors)
	fmt.Printf("  Sectors:        %d\n", stats.Sectors)
	fmt.Printf("  Locations:      %d\n", stats.Locations)
	fmt.Printf("  Relationships:  %d\n", stats.Relationships)

	sectorStats, err := dbClient.SectorStats(ctx)
	if err != nil {
		return fmt.Errorf("sector stats: %w", err)
	}
	if len(sectorStats) > 0 {
		fmt.Println()
		fmt.Println(theme.headingStyle().Render("Sectors"))
		for _, s := range sectorStats {
			fmt.Printf("  %-16s %3d companies  $%.1fB total  $%.1fB avg\n",
				s.Sector, s.CompanyCount, s.TotalValue, s.AvgValue)
		}
	}

	locationStats, err := dbClient.LocationStats(ctx)
	if err != nil {
		return fmt.Errorf("location stats: %w", err)
	}
	if len(locationStats) > 0 {
		fmt.Println()
		fmt.Println(theme.headingStyle().Render("Cities"))
		for _, s := range locationStats {
			fmt.Printf("  %-16s %3d companies  $%.1fB total\n", s.City, s.CompanyCount, s.TotalValue)
		}
	}

	if statsSectors {
		sectors, err := dbClient.AllSectors(ctx)
		if err != nil {
			return fmt.Errorf("all sectors: %w", err)
		}
		if len(sectors) > 0 {
			fmt.Println()
			fmt.Println(theme.headingStyle().Render("Sector taxonomy"))
			for _, s := range sectors {
				fmt.Printf("  %s\n", formatSectorListing(s))
			}
		}
	}

	if statsGrowth {
		growth, err := dbClient.ValuationGrowth(ctx, 10)
		if err != nil {
			return fmt.Errorf("valuation growth: %w", err)
		}
		if len(growth) > 0 {
			fmt.Println()
			fmt.Println(theme.headingStyle().Render("Growth since entry"))
			for i, g := range growth {
				fmt.Printf("  %2d. %-20s $%.1fB -> $%.1fB (%.0f%%)\n",
					i+1, g.Company, g.EntryValuation, g.CurrentValue, g.GrowthPercent)
			}
		}
	}

	return nil
}

// formatSectorListing renders one sector and its subsectors on a
// single line.
func formatSectorListing(s models.SectorListing) string {
	if len(s.SubSectors) == 0 {
		return s.Sector
	}
	return fmt.Sprintf("%-16s %s", s.Sector, strings.Join(s.SubSectors, ", "))
}
