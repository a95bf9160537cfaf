package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cartwise/companion-service/internal/geo"
)

// distanceCmd represents the distance command
var distanceCmd = &cobra.Command{
	Use:   "distance <lat1> <lon1> <lat2> <lon2>",
	Short: "Compute the great-circle distance between two coordinates",
	Example: `  companion-service distance 45.8150 15.9819 43.5081 16.4402
  companion-service distance 1.3048 103.8350 1.2840 103.8607`,
	Args: cobra.ExactArgs(4),
	RunE: runDistance,
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(cmd *cobra.Command, args []string) error {
	values := make([]float64, 4)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", arg, err)
		}
		values[i] = v
	}

	from := geo.Coordinate{Latitude: values[0], Longitude: values[1]}
	to := geo.Coordinate{Latitude: values[2], Longitude: values[3]}

	if err := from.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}

	fmt.Printf("%.3f km\n", geo.HaversineKm(from, to))
	return nil
}
