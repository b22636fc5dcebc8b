package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the index",
	Long: `Removes all indexed entries for a document and forgets its
content hash, so the next index run treats it as new.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	docID := args[0]
	ctx := cmd.Context()

	removed, err := indexerService.RemoveDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if err := vectorStore.Persist(ctx); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}

	cmd.Printf("Removed %d entries for %s.\n", removed, docID)
	return nil
}
