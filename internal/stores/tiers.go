package stores

// DefaultPriceTier is assigned to chains without a known tier.
// Mid-tier rather than an error keeps unknown chains rankable.
const DefaultPriceTier = 3

// priceTiers maps chain slugs to a relative cost rank, lower = cheaper.
var priceTiers = map[string]int{
	"lidl":     1,
	"eurospin": 2,
	"plodine":  3,
	"kaufland": 4,
	"konzum":   5,
}

// ValidChains returns the list of supported chain slugs.
func ValidChains() []string {
	return []string{
		"konzum",
		"lidl",
		"plodine",
		"kaufland",
		"eurospin",
		"studenac",
		"interspar",
		"dm",
		"ktc",
		"metro",
		"trgocentar",
	}
}

// IsValidChain checks if a chain slug is valid.
func IsValidChain(chain string) bool {
	valid := make(map[string]bool, len(ValidChains()))
	for _, c := range ValidChains() {
		valid[c] = true
	}
	return valid[chain]
}

// PriceTier returns the price tier for a chain slug.
// Unknown chains get DefaultPriceTier.
func PriceTier(chain string) int {
	if tier, ok := priceTiers[chain]; ok {
		return tier
	}
	return DefaultPriceTier
}
