package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newshound/newshound/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the reader-proxy API token",
	Long: `The reader proxy accepts an optional API token for higher rate limits.
These commands store it in the system keyring.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store the reader-proxy token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := ""
		if len(args) == 1 {
			token = args[0]
		} else {
			cmd.Print("Token: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			token = strings.TrimSpace(line)
		}
		if err := auth.SaveToken(token); err != nil {
			return err
		}
		cmd.Println(green("Token stored."))
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear-token",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := auth.DeleteToken()
		if errors.Is(err, auth.ErrNoToken) {
			cmd.Println("No token stored.")
			return nil
		}
		if err != nil {
			return err
		}
		cmd.Println("Token removed.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a token is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := auth.LoadToken()
		if errors.Is(err, auth.ErrNoToken) {
			cmd.Println("No token stored.")
			return nil
		}
		if err != nil {
			return err
		}
		cmd.Printf("Token stored (%s)\n", maskToken(tok))
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetCmd, authClearCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func maskToken(tok string) string {
	if len(tok) <= 8 {
		return strings.Repeat("*", len(tok))
	}
	return fmt.Sprintf("%s…%s", tok[:4], tok[len(tok)-4:])
}
