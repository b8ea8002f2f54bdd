// ABOUTME: Whoami command for the geochallenge CLI
// ABOUTME: Shows the logged-in profile and saved home location

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user and home location",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, _, err := newClient()
		exitOnError(err, 1)

		exitCode := runWhoami(ctx, os.Stdout, client)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// whoamiResult is the JSON output shape
type whoamiResult struct {
	Profile  *api.Profile  `json:"profile"`
	Location *api.Location `json:"location,omitempty"`
}

// runWhoami fetches and prints the profile, returning an exit code
func runWhoami(ctx context.Context, w io.Writer, client *api.Client) int {
	client.Init(ctx)

	if !client.Store().Authenticated() {
		fmt.Fprintln(w, "Not logged in. Run: geochallenge login")
		return 1
	}

	profile, err := client.Profile(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			fmt.Fprintln(w, "Session expired. Run: geochallenge login")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	location, err := client.MyLocation(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, err := json.MarshalIndent(whoamiResult{Profile: profile, Location: location}, "", "  ")
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "User:     %s\n", profile.Username)
	fmt.Fprintf(w, "Email:    %s\n", profile.Email)
	if pt, ok := location.Point(); ok {
		fmt.Fprintf(w, "Location: %s\n", pt)
	} else {
		fmt.Fprintln(w, "Location: not saved")
	}
	return 0
}
