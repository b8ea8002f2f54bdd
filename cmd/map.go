// ABOUTME: Map command for the geochallenge CLI
// ABOUTME: Launches the interactive terminal map for picking and browsing

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/tui"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Browse caches on an interactive terminal map",
	Long: `Open the interactive map.

Pick a search center (r) or draw a bounding box (b) with the mouse, then
page through the caches found there. Results accumulate on the map until
a new pick starts.`,
	Run: func(cmd *cobra.Command, args []string) {
		client, cfg, err := newClient()
		exitOnError(err, 1)

		app := tui.New(client, cfg.DefaultRadiusKm)
		p := tea.NewProgram(app,
			tea.WithAltScreen(),
			tea.WithMouseAllMotion(),
		)
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
}
