package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

var (
	searchTopK    int
	searchJSON    bool
	searchFilters []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs semantic search over the indexed documents and prints
the most relevant passages, best first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVarP(&searchFilters, "filter", "f", nil,
		"metadata filter as key=value (repeatable)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	query := args[0]

	filter, err := parseFilters(searchFilters)
	if err != nil {
		return err
	}

	results, err := retrieverService.Search(cmd.Context(), query, searchTopK, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

// parseFilters converts key=value pairs into an equality filter.
func parseFilters(pairs []string) (domain.Filter, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filter := make(domain.Filter, len(pairs))
	for _, pair := range pairs {
		key, value, ok := cutPair(pair)
		if !ok {
			return nil, fmt.Errorf("%w: filter %q is not key=value", domain.ErrInvalidArgument, pair)
		}
		filter[key] = value
	}
	return filter, nil
}

func cutPair(pair string) (string, string, bool) {
	for i := range pair {
		if pair[i] == '=' {
			return pair[:i], pair[i+1:], i > 0
		}
	}
	return "", "", false
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := entryTitle(results[i].Entry)
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		cmd.Printf("      Document: %s\n", results[i].Entry.DocumentID)
		cmd.Printf("      %s\n", snippet(results[i].Entry.Text, 160))
		cmd.Println()
	}
	return nil
}

// entryTitle prefers the title carried in metadata, falling back to the
// document ID.
func entryTitle(entry domain.Entry) string {
	if title, ok := entry.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return entry.DocumentID
}

// snippet truncates text to at most n runes for display.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
