// ABOUTME: Logout command for the geochallenge CLI
// ABOUTME: Clears stored tokens and cached profile snapshots

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		client, _, err := newClient()
		exitOnError(err, 1)
		runLogout(os.Stdout, client)
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears local state. Logout never fails: even with no stored
// session the end state is the same.
func runLogout(w io.Writer, client *api.Client) {
	client.Logout()
	fmt.Fprintln(w, "Logged out.")
}
