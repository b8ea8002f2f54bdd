// ABOUTME: Root command for the geochallenge CLI
// ABOUTME: Handles global flags, configuration, and client construction

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/auth"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/cache"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/config"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/logger"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "geochallenge",
	Short: "CLI for the GeoChallenge Tracker",
	Long: `geochallenge is a command-line client for the GeoChallenge Tracker backend.

It lets you log in, inspect your profile and home location, search for
geocaches around a point or inside a bounding box, and browse results on
an interactive terminal map.

Environment Variables:
  GEOCHALLENGE_API_URL     Backend API URL (default: http://localhost:8000)
  GEOCHALLENGE_CONFIG_DIR  Where the refresh token is stored`,
}

// Execute runs the root command
func Execute() error {
	logger.Init()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides GEOCHALLENGE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or config default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	cfg, err := config.Load()
	if err != nil {
		return "http://localhost:8000"
	}
	return cfg.APIUrl
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newClient builds an API client backed by the on-disk refresh token store.
func newClient() (*api.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	url := cfg.APIUrl
	if apiURL != "" {
		url = apiURL
	}

	store := auth.NewStore(auth.NewMemoryStorage(), auth.NewFileStorage(cfg.ConfigDir))
	snapshots := cache.New(time.Duration(cfg.SnapshotTTL) * time.Second)

	client := api.New(api.Config{
		BaseURL:  url,
		Timeout:  time.Duration(cfg.RequestTimeout) * time.Second,
		PageSize: cfg.PageSize,
	}, store, snapshots)

	return client, cfg, nil
}

// exitOnError prints the error and exits with the given code
func exitOnError(err error, code int) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}
