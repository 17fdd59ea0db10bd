// Package cli provides the command-line interface for unigraph.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/devpatil/unigraph/internal/config"
	"github.com/devpatil/unigraph/internal/db"
	"github.com/devpatil/unigraph/internal/llm"
	"github.com/devpatil/unigraph/internal/metrics"
	"github.com/devpatil/unigraph/internal/rag"
	"github.com/devpatil/unigraph/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and shared handles
	cfg      config.Config
	logger   *slog.Logger
	dbClient *db.Client

	// Connection error kept so the health command can report an
	// unreachable store instead of failing at startup.
	connectErr error

	closeLog func() error

	// Lazy-initialized generation client
	generator llm.Generator
	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "unigraph",
	Short: "Graph-grounded Q&A over Indian unicorn startups",
	Long: `Unigraph answers natural-language questions about a knowledge graph of
Indian unicorn startups, their investors, sectors, and locations.

Queries are classified into an intent, grounded with a bounded slice of
graph data, and answered by a local or hosted text-generation model.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, closeLog = config.SetupLogger(cfg.LogFile, cfg.LogLevel)

		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		dbClient, connectErr = db.NewClient(ctx, dbCfg, logger)
		if connectErr != nil {
			// The health command reports connectivity instead of
			// failing; everything else needs the store.
			if cmd.Name() == "health" {
				logger.Warn("store unreachable", slog.String("error", connectErr.Error()))
				return nil
			}
			return fmt.Errorf("connect to graph store: %w", connectErr)
		}

		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store connection: %v\n", err)
			}
		}
		if closeLog != nil {
			_ = closeLog()
		}
	},
}

// loadGazetteers returns the extraction vocabularies, honoring the
// optional override file.
func loadGazetteers() (rag.Gazetteers, error) {
	if cfg.GazetteerFile == "" {
		return rag.DefaultGazetteers(), nil
	}
	return rag.LoadGazetteers(cfg.GazetteerFile)
}

// getPipeline builds the query pipeline, creating the generation
// client on first use.
func getPipeline() (*service.Pipeline, error) {
	if generator == nil {
		var err error
		generator, err = llm.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("init generator: %w", err)
		}
	}

	gaz, err := loadGazetteers()
	if err != nil {
		return nil, err
	}

	builder := rag.NewBuilder(dbClient, rag.NewExtractor(gaz), cfg.MaxContextChars, logger)
	return service.NewPipeline(builder, generator, dbClient, collector, logger), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(seedCmd)
}
