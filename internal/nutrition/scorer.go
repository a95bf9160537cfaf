package nutrition

// Grade is a coarse letter summary of a nutrition score.
type Grade string

const (
	GradeA  Grade = "A"
	GradeB  Grade = "B"
	GradeC  Grade = "C"
	GradeD  Grade = "D"
	GradeNA Grade = "N/A" // Sentinel for missing facts, not part of the A-D scale
)

// Score is the derived nutrition summary for a product.
type Score struct {
	Value int    `json:"score"` // 0..100
	Grade Grade  `json:"grade"`
	Color string `json:"color"` // UI hint tag: green, lime, orange, red, gray
}

// Deduction and bonus thresholds, applied per 100g/100ml.
const (
	highCalories = 400  // kcal
	highSugar    = 20   // g
	highSodium   = 1.5  // g
	highSatFat   = 10   // g
	goodProtein  = 10   // g
	goodFiber    = 5    // g
)

// ComputeScore maps nutrition facts to a 0-100 score and letter grade.
// Nil facts yield {0, N/A}.
func ComputeScore(facts *Facts) Score {
	if facts == nil {
		return Score{Value: 0, Grade: GradeNA, Color: "gray"}
	}

	score := 100
	if facts.Calories > highCalories {
		score -= 20
	}
	if facts.Sugar > highSugar {
		score -= 15
	}
	if facts.Sodium > highSodium {
		score -= 15
	}
	if facts.SaturatedFat > highSatFat {
		score -= 10
	}
	if facts.Protein > goodProtein {
		score += 5
	}
	if facts.Fiber > goodFiber {
		score += 5
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	grade := gradeFor(score)
	return Score{Value: score, Grade: grade, Color: colorFor(grade)}
}

func gradeFor(score int) Grade {
	switch {
	case score >= 85:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 55:
		return GradeC
	default:
		return GradeD
	}
}

func colorFor(grade Grade) string {
	switch grade {
	case GradeA:
		return "green"
	case GradeB:
		return "lime"
	case GradeC:
		return "orange"
	case GradeD:
		return "red"
	default:
		return "gray"
	}
}
