package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cartwise/companion-service/internal/catalog"
	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

var (
	rankLat    float64
	rankLon    float64
	rankRadius float64
	rankBy     string
	rankOutput string
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank <file>",
	Short: "Rank stores from a catalog file by distance or price tier",
	Long: `Rank the stores in a catalog export (CSV or XLSX) against an origin
coordinate. Stores outside the radius are dropped; the rest are sorted by
distance, or by chain price tier when --by price is given.`,
	Example: `  companion-service rank ./stores.csv --lat 45.8150 --lon 15.9819
  companion-service rank ./stores.xlsx --lat 45.8150 --lon 15.9819 --radius 2.5 --by price`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().Float64Var(&rankLat, "lat", 0, "Origin latitude (required)")
	rankCmd.Flags().Float64Var(&rankLon, "lon", 0, "Origin longitude (required)")
	rankCmd.Flags().Float64Var(&rankRadius, "radius", 1.0, "Radius in kilometers")
	rankCmd.Flags().StringVar(&rankBy, "by", "distance", "Ranking: distance or price")
	rankCmd.Flags().StringVar(&rankOutput, "output", "table", "Output format: table or json")
	rankCmd.MarkFlagRequired("lat")
	rankCmd.MarkFlagRequired("lon")
}

func runRank(cmd *cobra.Command, args []string) error {
	if rankBy != "distance" && rankBy != "price" {
		return fmt.Errorf("invalid ranking %q, expected distance or price", rankBy)
	}

	origin := geo.Coordinate{Latitude: rankLat, Longitude: rankLon}
	if err := origin.Validate(); err != nil {
		return err
	}
	if rankRadius < 0 {
		return fmt.Errorf("radius must not be negative")
	}

	result, err := parseCatalogFile(args[0])
	if err != nil {
		return err
	}
	for _, skipped := range result.Skipped {
		logger.Warn().Int("row", skipped.Row).Str("reason", skipped.Reason).Msg("Skipped row")
	}

	ranked := stores.Rank(result.Records, origin, rankRadius)
	if rankBy == "price" {
		ranked = stores.RankByPrice(ranked)
	}

	if rankOutput == "json" {
		return json.NewEncoder(os.Stdout).Encode(ranked)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHAIN\tTIER\tDISTANCE (KM)\tADDRESS")
	for _, s := range ranked {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", s.Name, s.Chain, stores.PriceTier(s.Chain), s.DistanceKm, s.Address)
	}
	return w.Flush()
}

func parseCatalogFile(path string) (*catalog.ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return catalog.ParseXLSX(content)
	}
	return catalog.ParseCSV(content)
}
