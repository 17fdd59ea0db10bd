package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	searchSimilar bool
	searchDetails bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the graph directly, without generation",
	Long: `Search companies by case-insensitive substring match. Use --details
for the full relationship fan-out of the best match, or --similar for
companies sharing sectors, locations, or investors with it.

Examples:
  unigraph search flipkart
  unigraph search cred --details
  unigraph search razorpay --similar`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "max results")
	searchCmd.Flags().BoolVar(&searchSimilar, "similar", false, "list similar companies instead")
	searchCmd.Flags().BoolVar(&searchDetails, "details", false, "show the full profile of the best match")
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := args[0]
	ctx := context.Background()
	theme := defaultTheme

	if searchSimilar {
		similar, err := dbClient.SimilarCompanies(ctx, term, searchLimit)
		if err != nil {
			return fmt.Errorf("similar companies: %w", err)
		}
		if len(similar) == 0 {
			fmt.Println("No similar companies found.")
			return nil
		}
		fmt.Println(theme.headingStyle().Render(fmt.Sprintf("Companies similar to %q", term)))
		for i, s := range similar {
			fmt.Printf("%d. %s (score %d, %s)\n", i+1, s.Company, s.SimilarityScore, valuation(s.Valuation))
		}
		return nil
	}

	if searchDetails {
		details, err := dbClient.CompanyDetails(ctx, term)
		if err != nil {
			return fmt.Errorf("company details: %w", err)
		}
		if details == nil {
			fmt.Println("No company matched.")
			return nil
		}
		fmt.Println(theme.headingStyle().Render(details.Company))
		fmt.Printf("  Sector:           %s", deref(details.Sector))
		if details.SubSector != nil {
			fmt.Printf(" (%s)", *details.SubSector)
		}
		fmt.Println()
		fmt.Printf("  Valuation:        %s\n", valuation(details.Valuation))
		fmt.Printf("  Entry valuation:  %s\n", valuation(details.EntryValuation))
		fmt.Printf("  Entry date:       %s\n", deref(details.EntryDate))
		fmt.Printf("  Locations:        %s\n", joinOrDash(details.Locations))
		fmt.Printf("  Investors:        %s\n", joinOrDash(details.Investors))
		return nil
	}

	companies, err := dbClient.SearchCompanies(ctx, term, searchLimit)
	if err != nil {
		return fmt.Errorf("search companies: %w", err)
	}
	if len(companies) == 0 {
		fmt.Println("No companies matched.")
		return nil
	}

	for _, c := range companies {
		fmt.Printf("%-20s %10s  %s\n", c.Company, valuation(c.Valuation), deref(c.Sector))
	}
	return nil
}

func valuation(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.1fB", *v)
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	out := items[0]
	for _, item := range items[1:] {
		out += ", " + item
	}
	return out
}
