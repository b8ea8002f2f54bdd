// ABOUTME: Search commands for the geochallenge CLI
// ABOUTME: Non-interactive radius and bounding-box cache searches with paging

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
	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/search"
)

var (
	searchLat    float64
	searchLon    float64
	searchRadius float64
	searchMinLat float64
	searchMinLon float64
	searchMaxLat float64
	searchMaxLon float64
	searchPages  int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for caches in a region",
}

var searchRadiusCmd = &cobra.Command{
	Use:   "radius",
	Short: "List caches within a radius of a point",
	Run: func(cmd *cobra.Command, args []string) {
		center := geo.Point{Lat: searchLat, Lon: searchLon}
		if !center.Valid() {
			exitOnError(fmt.Errorf("invalid center %s", center), 1)
		}
		runRegionSearch(geo.Circle{Center: center, RadiusKm: searchRadius})
	},
}

var searchBBoxCmd = &cobra.Command{
	Use:   "bbox",
	Short: "List caches inside a bounding box",
	Long: `List caches inside a latitude/longitude bounding box.

The two corners may be given in any order; the box is normalized from
their minimum and maximum coordinates.`,
	Run: func(cmd *cobra.Command, args []string) {
		a := geo.Point{Lat: searchMinLat, Lon: searchMinLon}
		b := geo.Point{Lat: searchMaxLat, Lon: searchMaxLon}
		if !a.Valid() || !b.Valid() {
			exitOnError(fmt.Errorf("invalid corners %s and %s", a, b), 1)
		}
		runRegionSearch(geo.BBoxFromCorners(a, b))
	},
}

func init() {
	searchRadiusCmd.Flags().Float64Var(&searchLat, "lat", 0, "Center latitude")
	searchRadiusCmd.Flags().Float64Var(&searchLon, "lon", 0, "Center longitude")
	searchRadiusCmd.Flags().Float64Var(&searchRadius, "radius", 10, "Radius in kilometers")
	searchRadiusCmd.MarkFlagRequired("lat")
	searchRadiusCmd.MarkFlagRequired("lon")

	searchBBoxCmd.Flags().Float64Var(&searchMinLat, "lat1", 0, "First corner latitude")
	searchBBoxCmd.Flags().Float64Var(&searchMinLon, "lon1", 0, "First corner longitude")
	searchBBoxCmd.Flags().Float64Var(&searchMaxLat, "lat2", 0, "Second corner latitude")
	searchBBoxCmd.Flags().Float64Var(&searchMaxLon, "lon2", 0, "Second corner longitude")
	searchBBoxCmd.MarkFlagRequired("lat1")
	searchBBoxCmd.MarkFlagRequired("lon1")
	searchBBoxCmd.MarkFlagRequired("lat2")
	searchBBoxCmd.MarkFlagRequired("lon2")

	searchCmd.PersistentFlags().IntVar(&searchPages, "pages", 1, "Number of result pages to fetch (0 = all)")
	searchCmd.AddCommand(searchRadiusCmd)
	searchCmd.AddCommand(searchBBoxCmd)
	rootCmd.AddCommand(searchCmd)
}

func runRegionSearch(region geo.Region) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, _, err := newClient()
	exitOnError(err, 1)
	client.Init(ctx)

	exitCode := runSearch(ctx, os.Stdout, client, region, searchPages)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runSearch pages through the region and prints results, returning an exit code
func runSearch(ctx context.Context, w io.Writer, client *api.Client, region geo.Region, pages int) int {
	if !client.Store().Authenticated() {
		fmt.Fprintln(w, "Not logged in. Run: geochallenge login")
		return 1
	}

	acc := search.New()
	acc.SetFetch(client.RegionFetcher(region))

	var items []api.Cache
	for fetched := 0; acc.CanSearch() && (pages == 0 || fetched < pages); fetched++ {
		page, err := acc.Search(ctx)
		if err != nil {
			if api.IsUnauthorized(err) {
				fmt.Fprintln(w, "Session expired. Run: geochallenge login")
				return 1
			}
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		items = append(items, page...)
	}

	if IsJSONOutput() {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		fmt.Fprintln(w, string(data))
		return 0
	}

	for _, item := range items {
		fmt.Fprintln(w, formatCache(item))
	}
	fmt.Fprintf(w, "%d of %d caches\n", acc.Count(), acc.Total())
	if !acc.Exhausted() {
		fmt.Fprintf(w, "More available: rerun with --pages %d or --pages 0\n", pages+1)
	}
	return 0
}

// formatCache renders one result line
func formatCache(c api.Cache) string {
	line := fmt.Sprintf("%-8s D%.1f/T%.1f  %9.5f, %10.5f  %s",
		c.GC, c.Difficulty, c.Terrain, c.Lat, c.Lon, c.Title)
	if c.DistMeters != nil {
		line += fmt.Sprintf("  (%.1f km)", *c.DistMeters/1000)
	}
	return line
}
