package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	savedLimit  int
	savedDelete bool
)

var savedCmd = &cobra.Command{
	Use:   "saved [id]",
	Short: "List or read articles in the local library",
	Long: `Without arguments, lists saved articles. With an ID, prints that
article; with --delete, removes it.`,
	Example: `  newshound saved
  newshound saved 4
  newshound saved 4 --delete`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSaved,
}

func init() {
	rootCmd.AddCommand(savedCmd)

	savedCmd.Flags().IntVarP(&savedLimit, "limit", "n", 20, "Maximum entries to list")
	savedCmd.Flags().BoolVar(&savedDelete, "delete", false, "Delete the given article")
}

func runSaved(cmd *cobra.Command, args []string) error {
	a := getApp()
	st, err := a.Store()
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}

	if len(args) == 0 {
		if savedDelete {
			return fmt.Errorf("--delete needs an article ID")
		}
		entries, err := st.List(savedLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("Library is empty.")
			return nil
		}
		for _, e := range entries {
			cmd.Printf("%s %s %s\n",
				bold(fmt.Sprintf("%3d.", e.ID)),
				e.Article.Title,
				dim(fmt.Sprintf("(%d words, saved %s)", e.Article.WordCount, e.SavedAt.Format("2006-01-02"))))
			cmd.Printf("     %s\n", cyan(e.Article.URL))
		}
		return nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid article ID %q", args[0])
	}

	if savedDelete {
		if err := st.Delete(id); err != nil {
			return err
		}
		cmd.Printf("Deleted article %d\n", id)
		return nil
	}

	saved, err := st.Get(id)
	if err != nil {
		return fmt.Errorf("article %d not found", id)
	}
	printArticle(cmd, &saved.Article, false)
	return nil
}
