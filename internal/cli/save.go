package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	urlutil "github.com/newshound/newshound/internal/utils/url"
	"github.com/newshound/newshound/pkg/models"
)

var saveCmd = &cobra.Command{
	Use:   "save <url | #id>",
	Short: "Retrieve an article and keep it in the local library",
	Long: `Retrieves an article (or reuses one already read this session) and
persists it to the local SQLite library for offline reading.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	a := getApp()

	pageURL, cacheID, err := resolveTarget(a, args[0])
	if err != nil {
		return err
	}

	var art *models.Article
	if entry, ok := a.Cache.GetByURL(pageURL); ok && entry.Article != nil {
		art = entry.Article
	}

	if art == nil {
		req, err := models.NewRetrievalRequest(pageURL, a.Config.TimeBudget, a.Config.StrategyOrder, a.Config.MinWords)
		if err != nil {
			return err
		}
		result := a.Cascade.Run(cmd.Context(), req)
		if !result.Usable() {
			return fmt.Errorf("no usable article after %d attempts", len(result.Attempts))
		}
		art = result.Article
		if cacheID == 0 {
			cacheID = a.Cache.Add(pageURL, art.Title, urlutil.Domain(pageURL))
		}
		a.Cache.Attach(cacheID, art)
	}

	st, err := a.Store()
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	id, err := st.Save(art)
	if err != nil {
		return err
	}

	title := art.Title
	if title == "" {
		title = pageURL
	}
	cmd.Printf("%s %s (library ID %d)\n", green("Saved"), title, id)
	return nil
}
