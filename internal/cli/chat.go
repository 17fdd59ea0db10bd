package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devpatil/unigraph/internal/metrics"
)

const timeRounding = time.Millisecond

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-and-answer loop",
	Long: `Start an interactive session against the unicorn startup graph. Each
question is retrieved and answered independently; there is no
conversation memory across turns.

Type "/context" to toggle showing the retrieved graph context with
each answer, "exit" or Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	pipeline, err := getPipeline()
	if err != nil {
		return err
	}

	theme := defaultTheme
	ctx := context.Background()

	health := pipeline.CheckConnections(ctx)
	if health.Stats != nil {
		fmt.Println(theme.headingStyle().Render("Unicorn startup graph"))
		fmt.Printf("%d companies, %d investors, %d sectors, %d locations\n\n",
			health.Stats.Companies, health.Stats.Investors, health.Stats.Sectors, health.Stats.Locations)
	}
	if !health.LLMConnected {
		fmt.Println(theme.errorStyle().Render("⚠ generation service not running; answers will fail until it is up"))
	}

	showContext := false
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(theme.headingStyle().Render("? "))
		if !scanner.Scan() {
			fmt.Println()
			printSessionStats(theme, pipeline.Metrics())
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			printSessionStats(theme, pipeline.Metrics())
			return nil
		}
		if query == "/context" {
			showContext = !showContext
			fmt.Println(theme.hintStyle().Render(fmt.Sprintf("show context: %v", showContext)))
			continue
		}

		resp, err := pipeline.ProcessQuery(ctx, query)
		if err != nil {
			fmt.Println(theme.errorStyle().Render("⚠ " + err.Error()))
			continue
		}
		if !resp.Success {
			fmt.Println(theme.errorStyle().Render("⚠ " + resp.Error))
			continue
		}

		fmt.Println(resp.Answer)
		fmt.Println(theme.hintStyle().Render(fmt.Sprintf(
			"intent=%s entities=%d retrieval=%s generation=%s",
			resp.Intent, resp.EntitiesFound,
			resp.RetrievalTime.Round(timeRounding), resp.GenerationTime.Round(timeRounding))))
		if showContext {
			fmt.Println()
			fmt.Println(theme.hintStyle().Render("Retrieved context:"))
			fmt.Println(resp.Context)
		}
		fmt.Println()
	}
}

// printSessionStats dumps the in-memory metrics gathered over the
// session.
func printSessionStats(theme Theme, snap metrics.Snapshot) {
	if snap.Retrieval == nil && snap.Generation == nil {
		return
	}

	fmt.Println(theme.headingStyle().Render("Session statistics"))
	if snap.Retrieval != nil {
		fmt.Printf("retrieval:  %d queries, avg %.0fms (min %dms, max %dms)\n",
			snap.Retrieval.Count, snap.Retrieval.AvgTimeMs, snap.Retrieval.MinTimeMs, snap.Retrieval.MaxTimeMs)
	}
	if snap.Generation != nil {
		line := fmt.Sprintf("generation: %d calls, avg %.0fms (min %dms, max %dms)",
			snap.Generation.Count, snap.Generation.AvgTimeMs, snap.Generation.MinTimeMs, snap.Generation.MaxTimeMs)
		if snap.Generation.TotalOutputTokens != nil {
			line += fmt.Sprintf(", %d output tokens", *snap.Generation.TotalOutputTokens)
		}
		fmt.Println(line)
	}
}
