// Package cli provides the command-line interface for newshound.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/newshound/newshound/internal/app"
	"github.com/newshound/newshound/internal/config"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "newshound",
	Short: "Retrieve readable article text from news URLs",
	Long: `Newshound pulls the readable text out of news articles, escalating
through progressively heavier retrieval strategies until one of them gets
past whatever stands between you and the page.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)

	// The application is built lazily so -h/--help never starts anything.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if getApp() != nil {
			return nil
		}
		cfg, err := config.Load(rootCmd)
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		setApp(a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a := getApp(); a != nil {
			_ = a.Close()
			setApp(nil)
		}
	}
}
