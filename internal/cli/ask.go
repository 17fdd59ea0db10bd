package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var askShowContext bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and get a graph-grounded answer",
	Long: `Ask a question about the unicorn startup graph. The question is
classified into an intent, grounded with matching graph data, and
answered by the configured generation model.

Examples:
  unigraph ask "Tell me about Flipkart"
  unigraph ask "Who are the top investors?"
  unigraph ask "Compare CRED and PhonePe"
  unigraph ask "Which fintech companies are in Bangalore?" --show-context`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved graph context")
}

func runAsk(cmd *cobra.Command, args []string) error {
	pipeline, err := getPipeline()
	if err != nil {
		return err
	}

	resp, err := pipeline.ProcessQuery(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("process query: %w", err)
	}

	theme := defaultTheme
	if !resp.Success {
		fmt.Println(theme.errorStyle().Render("⚠ " + resp.Error))
		if askShowContext && resp.Context != "" {
			fmt.Println()
			fmt.Println(theme.hintStyle().Render("Retrieved context:"))
			fmt.Println(resp.Context)
		}
		return nil
	}

	fmt.Println(resp.Answer)
	fmt.Println()
	fmt.Println(theme.hintStyle().Render(fmt.Sprintf(
		"intent=%s entities=%d retrieval=%s generation=%s model=%s",
		resp.Intent, resp.EntitiesFound,
		resp.RetrievalTime.Round(timeRounding), resp.GenerationTime.Round(timeRounding),
		resp.Model)))

	if askShowContext {
		fmt.Println()
		fmt.Println(theme.hintStyle().Render("Retrieved context:"))
		fmt.Println(resp.Context)
	}

	return nil
}
