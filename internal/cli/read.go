package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newshound/newshound/internal/app"
	"github.com/newshound/newshound/internal/utils/output"
	urlutil "github.com/newshound/newshound/internal/utils/url"
	"github.com/newshound/newshound/pkg/models"
)

var (
	readTrace    bool
	readMarkdown bool
	readRefresh  bool
	readOutput   string
)

var readCmd = &cobra.Command{
	Use:   "read <url | #id>",
	Short: "Retrieve the readable text of an article",
	Long: `Fetches a page and extracts its article text, escalating through the
configured strategy cascade until one attempt yields usable content.

The argument is either a URL or a numeric ID from a previous search.`,
	Example: `  # Read an article by URL
  newshound read https://example.com/news/story

  # Read result 3 from the last search
  newshound read 3

  # Show which strategies were tried
  newshound read https://example.com/news/story --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().BoolVar(&readTrace, "trace", false, "Print the per-strategy attempt trace")
	readCmd.Flags().BoolVar(&readMarkdown, "markdown", false, "Print markdown instead of plain text")
	readCmd.Flags().BoolVar(&readRefresh, "refresh", false, "Refetch even if the article is cached")
	readCmd.Flags().StringVarP(&readOutput, "output", "o", "", "Write the article to a file (.json, .md, or .txt)")
}

func runRead(cmd *cobra.Command, args []string) error {
	a := getApp()

	pageURL, cacheID, err := resolveTarget(a, args[0])
	if err != nil {
		return err
	}

	var art *models.Article
	if !readRefresh {
		if entry, ok := a.Cache.GetByURL(pageURL); ok && entry.Article != nil {
			art = entry.Article
		}
	}

	var result models.CascadeResult
	if art == nil {
		req, err := models.NewRetrievalRequest(pageURL, a.Config.TimeBudget, a.Config.StrategyOrder, a.Config.MinWords)
		if err != nil {
			return err
		}
		result = a.Cascade.Run(cmd.Context(), req)
		if readTrace || !result.Usable() {
			cmd.PrintErrln(result.Trace())
		}
		if !result.Usable() {
			cmd.PrintErrln(dim("Try opening the page in a regular browser: " + pageURL))
			return fmt.Errorf("no usable article after %d attempts", len(result.Attempts))
		}
		art = result.Article

		if cacheID == 0 {
			cacheID = a.Cache.Add(pageURL, art.Title, urlutil.Domain(pageURL))
		}
		a.Cache.Attach(cacheID, art)
	}

	if readOutput != "" {
		if err := output.Save(art, readOutput); err != nil {
			return fmt.Errorf("write %s: %w", readOutput, err)
		}
		cmd.Printf("Saved to %s\n", readOutput)
		return nil
	}

	printArticle(cmd, art, readMarkdown)
	return nil
}

// resolveTarget maps a CLI argument onto a URL: either directly, or via a
// cached search-result ID like "3" or "#3".
func resolveTarget(a *app.Application, arg string) (pageURL string, cacheID int, err error) {
	trimmed := strings.TrimPrefix(arg, "#")
	if id, convErr := strconv.Atoi(trimmed); convErr == nil {
		entry, ok := a.Cache.Get(id)
		if !ok {
			return "", 0, fmt.Errorf("no cached result with ID %d (run a search first)", id)
		}
		return entry.URL, entry.ID, nil
	}
	if err := urlutil.ValidateURL(arg); err != nil {
		return "", 0, err
	}
	return arg, 0, nil
}

func printArticle(cmd *cobra.Command, art *models.Article, markdown bool) {
	if art.Title != "" {
		cmd.Println(bold(art.Title))
	}
	var meta []string
	if art.Byline != "" {
		meta = append(meta, art.Byline)
	}
	if art.SiteName != "" {
		meta = append(meta, art.SiteName)
	}
	meta = append(meta, fmt.Sprintf("%d words via %s", art.WordCount, art.Strategy))
	cmd.Println(dim(strings.Join(meta, " · ")))
	cmd.Println(dim(art.URL))
	cmd.Println()

	if markdown && art.Markdown != "" {
		cmd.Println(art.Markdown)
		return
	}
	cmd.Println(art.Body)
}
