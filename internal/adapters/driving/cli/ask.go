package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askTopK        int
	askShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about indexed documents",
	Long: `Retrieves relevant passages for the question, asks the language
model to answer using only those passages, and prints the answer with
its sources. Without any relevant passages the answer is generated
from the model alone and carries no sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 5, "number of passages to retrieve")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved context before the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	question := args[0]

	response, err := generatorService.Generate(cmd.Context(), question, askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askShowContext && response.Context != "" {
		cmd.Println("Context:")
		cmd.Println(response.Context)
		cmd.Println()
	}

	if !response.Grounded {
		cmd.Println("(no indexed documents matched; answer is not grounded)")
		cmd.Println()
	}

	cmd.Println(response.FormattedTextWithCitations())
	return nil
}
