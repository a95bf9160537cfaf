package nutrition

// Insights lists the positive and warning aspects of a product.
// Order follows the fixed evaluation order below so the UI is stable.
type Insights struct {
	Positive []string `json:"positive"`
	Warnings []string `json:"warnings"`
}

// Insight thresholds for the positive side. These are deliberately not the
// complements of the warning thresholds: sugar between 5 and 20 triggers
// neither label. That banding is intentional.
const (
	lowCalories = 200 // kcal
	lowSodium   = 0.5 // g
	lowSugar    = 5   // g
)

// ComputeInsights derives health insight labels from nutrition facts.
// Each threshold is evaluated independently; nil facts yield empty lists.
func ComputeInsights(facts *Facts) Insights {
	insights := Insights{Positive: []string{}, Warnings: []string{}}
	if facts == nil {
		return insights
	}

	if facts.Protein > goodProtein {
		insights.Positive = append(insights.Positive, "high protein")
	}
	if facts.Fiber > goodFiber {
		insights.Positive = append(insights.Positive, "good fiber source")
	}
	if facts.Calories < lowCalories {
		insights.Positive = append(insights.Positive, "low calorie")
	}
	if facts.Sodium < lowSodium {
		insights.Positive = append(insights.Positive, "low sodium")
	}
	if facts.Sugar < lowSugar {
		insights.Positive = append(insights.Positive, "low sugar")
	}

	if facts.Calories > highCalories {
		insights.Warnings = append(insights.Warnings, "high in calories")
	}
	if facts.Sugar > highSugar {
		insights.Warnings = append(insights.Warnings, "high in sugar")
	}
	if facts.Sodium > highSodium {
		insights.Warnings = append(insights.Warnings, "high in sodium")
	}
	if facts.SaturatedFat > highSatFat {
		insights.Warnings = append(insights.Warnings, "high in saturated fat")
	}

	return insights
}
