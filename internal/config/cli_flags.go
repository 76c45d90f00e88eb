package config

import (
	"strconv"

	"github.com/spf13/cobra"
)

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("proxy", "", "Comma-separated HTTP/SOCKS5 proxies to rotate through")
	cmd.PersistentFlags().String("budget", DefaultTimeBudget.String(), "Overall wall-clock budget for one retrieval")
	cmd.PersistentFlags().String("timeout", DefaultAttemptTimeout.String(), "Per-strategy attempt timeout")
	cmd.PersistentFlags().String("min-words", strconv.Itoa(DefaultMinWords), "Minimum word count for a usable article")
	cmd.PersistentFlags().String("strategies", DefaultStrategyOrder, "Comma-separated strategy order")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().StringArrayP("header", "H", nil, "Extra request header (\"Key: Value\", repeatable)")
}
