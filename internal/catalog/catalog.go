// Package catalog provides read-only access to the supermarket catalog.
//
// The catalog is a static list of stores loaded from Postgres (or an
// import file) and queried by proximity. Lookups are linear scans over
// the store list with Haversine filtering; the catalog is small enough
// that no spatial index is warranted.
package catalog

import (
	"context"
	"errors"

	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

// ErrUnavailable is returned when the catalog backend cannot be reached.
// Callers must treat it as transient.
var ErrUnavailable = errors.New("catalog: unavailable")

// Locator finds stores around a coordinate. Returned records carry
// DistanceKm rounded to one decimal place; radius filtering happens on the
// unrounded distance before rounding, so boundary stores are never
// misclassified.
type Locator interface {
	FindNearby(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]stores.StoreRecord, error)
}

// Source lists raw catalog records, optionally scoped to one chain.
// An empty chain means all chains.
type Source interface {
	// Chains returns the distinct chain slugs present in the catalog.
	Chains(ctx context.Context) ([]string, error)
	ListStores(ctx context.Context, chain string) ([]stores.StoreRecord, error)
}

// rankAndRound applies radius filtering and distance-ascending ordering,
// then rounds the derived distances for the response.
func rankAndRound(candidates []stores.StoreRecord, origin geo.Coordinate, radiusKm float64) []stores.StoreRecord {
	ranked := stores.Rank(candidates, origin, radiusKm)
	for i := range ranked {
		ranked[i].DistanceKm = geo.RoundKm(ranked[i].DistanceKm)
	}
	return ranked
}
