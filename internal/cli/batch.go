package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/newshound/newshound/internal/scrape"
	"github.com/newshound/newshound/internal/utils/output"
	urlutil "github.com/newshound/newshound/internal/utils/url"
)

var (
	batchFile        string
	batchDir         string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch [url]...",
	Short: "Retrieve several articles concurrently",
	Long: `Runs the retrieval cascade over many URLs at once, bounded by a worker
pool. URLs come from the arguments, a file (--file, one URL per line), or
both.`,
	Example: `  newshound batch https://a.example/1 https://b.example/2

  # URLs from a file, articles written as markdown files
  newshound batch --file urls.txt --dir ./articles`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "File with one URL per line")
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "Directory to write retrieved articles into (as markdown)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Concurrent retrievals (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a := getApp()

	urls := append([]string(nil), args...)
	if batchFile != "" {
		fromFile, err := readURLFile(batchFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given (pass arguments or --file)")
	}

	if batchDir != "" {
		if err := os.MkdirAll(batchDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	concurrency := a.Config.BatchConcurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	bar := progressbar.NewOptions(len(urls),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("retrieving"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	results := a.Cascade.RunBatch(cmd.Context(), urls, scrape.BatchOptions{
		TimeBudget:  a.Config.TimeBudget,
		Order:       a.Config.StrategyOrder,
		MinWords:    a.Config.MinWords,
		Concurrency: concurrency,
		OnDone:      func() { _ = bar.Add(1) },
	})
	_ = bar.Finish()

	var ok, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			cmd.Printf("%s %s: %v\n", yellow("SKIP"), r.URL, r.Err)
		case r.Result.Usable():
			ok++
			art := r.Result.Article
			line := fmt.Sprintf("%s %s (%d words via %s)", green("OK"), r.URL, art.WordCount, art.Strategy)
			if batchDir != "" {
				path := filepath.Join(batchDir, articleFilename(r.URL))
				if err := output.SaveMarkdown(art, path); err != nil {
					cmd.Printf("%s %s: write failed: %v\n", yellow("WARN"), r.URL, err)
				} else {
					line += " -> " + path
				}
			}
			cmd.Println(line)
		default:
			failed++
			cmd.Printf("%s %s (%d attempts)\n", red("FAIL"), r.URL, len(r.Result.Attempts))
		}
	}

	cmd.Printf("\n%d retrieved, %d failed\n", ok, failed)
	if ok == 0 {
		return fmt.Errorf("no articles retrieved")
	}
	return nil
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// articleFilename derives a stable, filesystem-safe markdown name from a URL.
func articleFilename(rawURL string) string {
	name := urlutil.Domain(rawURL) + "-" + filepath.Base(strings.TrimRight(rawURL, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String() + ".md"
}
