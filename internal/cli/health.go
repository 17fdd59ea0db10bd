package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devpatil/unigraph/internal/llm"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check graph store and generation service connectivity",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	theme := defaultTheme

	up := theme.successStyle().Render("up")
	down := theme.errorStyle().Render("down")

	// Store status: a failed startup connection is reported, never
	// fatal, so the user can fix it and retry.
	if dbClient == nil {
		fmt.Printf("graph store        %s  (%v)\n", down, connectErr)
	} else if err := dbClient.Ping(ctx); err != nil {
		fmt.Printf("graph store        %s  (%v)\n", down, err)
	} else {
		fmt.Printf("graph store        %s  %s\n", up, cfg.SurrealDBURL)
		if stats, err := dbClient.GraphStats(ctx); err == nil {
			fmt.Println(theme.hintStyle().Render(fmt.Sprintf(
				"  %d companies, %d investors, %d sectors, %d locations, %d relationships",
				stats.Companies, stats.Investors, stats.Sectors, stats.Locations, stats.Relationships)))
		}
	}

	gen, err := llm.New(cfg)
	if err != nil {
		fmt.Printf("generation service %s  (%v)\n", down, err)
		return nil
	}
	if !gen.Available(ctx) {
		fmt.Printf("generation service %s  %s\n", down, cfg.OllamaURL)
		return nil
	}
	fmt.Printf("generation service %s  model=%s\n", up, gen.ModelName())

	if ollama, ok := gen.(*llm.OllamaGenerator); ok {
		if names, err := ollama.Models(ctx); err == nil && len(names) > 0 {
			fmt.Println(theme.hintStyle().Render(fmt.Sprintf("  available models: %s", joinOrDash(names))))
		}
	}

	return nil
}
