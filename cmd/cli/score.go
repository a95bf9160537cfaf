package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartwise/companion-service/internal/nutrition"
)

var (
	scoreCalories float64
	scoreSugar    float64
	scoreSodium   float64
	scoreSatFat   float64
	scoreProtein  float64
	scoreFiber    float64
	scoreOutput   string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a product's nutrition per 100g",
	Example: `  companion-service score --calories 456 --sugar 29.7 --satfat 8.1
  companion-service score --calories 120 --protein 12 --fiber 6 --output json`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Float64Var(&scoreCalories, "calories", 0, "Calories (kcal per 100g)")
	scoreCmd.Flags().Float64Var(&scoreSugar, "sugar", 0, "Sugar (g per 100g)")
	scoreCmd.Flags().Float64Var(&scoreSodium, "sodium", 0, "Sodium (g per 100g)")
	scoreCmd.Flags().Float64Var(&scoreSatFat, "satfat", 0, "Saturated fat (g per 100g)")
	scoreCmd.Flags().Float64Var(&scoreProtein, "protein", 0, "Protein (g per 100g)")
	scoreCmd.Flags().Float64Var(&scoreFiber, "fiber", 0, "Fiber (g per 100g)")
	scoreCmd.Flags().StringVar(&scoreOutput, "output", "table", "Output format: table or json")
}

func runScore(cmd *cobra.Command, args []string) error {
	facts := &nutrition.Facts{
		Calories:     scoreCalories,
		Sugar:        scoreSugar,
		Sodium:       scoreSodium,
		SaturatedFat: scoreSatFat,
		Protein:      scoreProtein,
		Fiber:        scoreFiber,
	}

	score := nutrition.ComputeScore(facts)
	insights := nutrition.ComputeInsights(facts)

	if scoreOutput == "json" {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"score":    score,
			"insights": insights,
		})
	}

	fmt.Printf("Score: %d (%s, %s)\n", score.Value, score.Grade, score.Color)
	for _, p := range insights.Positive {
		fmt.Printf("  + %s\n", p)
	}
	for _, w := range insights.Warnings {
		fmt.Printf("  - %s\n", w)
	}
	return nil
}
