package stores

import (
	"sort"

	"github.com/cartwise/companion-service/internal/geo"
)

// Rank filters candidates to those within radiusKm of origin and returns
// them sorted ascending by distance. Candidates with a zero DistanceKm get
// their distance computed from origin; the comparison uses the unrounded
// value so a store just inside the radius is never misclassified. The sort
// is stable: equal distances keep their input order.
func Rank(candidates []StoreRecord, origin geo.Coordinate, radiusKm float64) []StoreRecord {
	ranked := make([]StoreRecord, 0, len(candidates))
	for _, s := range candidates {
		if s.DistanceKm == 0 && s.Coordinate != origin {
			s.DistanceKm = geo.HaversineKm(origin, s.Coordinate)
		}
		if s.DistanceKm <= radiusKm {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}

// RankByPrice sorts candidates by chain price tier (cheapest first), with
// ties broken by distance ascending and then by original order.
func RankByPrice(candidates []StoreRecord) []StoreRecord {
	ranked := make([]StoreRecord, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := PriceTier(ranked[i].Chain), PriceTier(ranked[j].Chain)
		if ti != tj {
			return ti < tj
		}
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
