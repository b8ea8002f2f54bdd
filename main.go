// ABOUTME: Entry point for the geochallenge CLI
// ABOUTME: Command-line client for the GeoChallenge Tracker backend

package main

import (
	"fmt"
	"os"

	"github.com/MarvinLeRouge/geochallenge-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
