package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	urlutil "github.com/newshound/newshound/internal/utils/url"
)

var searchMax int

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search for news articles",
	Long: `Searches the web for news articles and lists the results with numeric
IDs. Pass an ID to "read" or "save" to act on a result.`,
	Example: `  newshound search fusion energy breakthrough
  newshound read 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchMax, "max", "n", 10, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := getApp()
	query := strings.Join(args, " ")

	results, err := a.Searcher.Search(cmd.Context(), query, searchMax)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		cmd.Println("No results.")
		return nil
	}

	for _, r := range results {
		source := r.Source
		if source == "" {
			source = urlutil.Domain(r.URL)
		}
		id := a.Cache.Add(r.URL, r.Title, source)

		cmd.Printf("%s %s %s\n", bold(fmt.Sprintf("%2d.", id)), r.Title, dim("("+source+")"))
		if r.Snippet != "" {
			cmd.Printf("    %s\n", dim(r.Snippet))
		}
		cmd.Printf("    %s\n", cyan(r.URL))
	}
	return nil
}
