// Package stores holds the supermarket record type and ranking logic.
package stores

import "github.com/cartwise/companion-service/internal/geo"

// StoreRecord represents a single supermarket from the catalog.
// Records are read-only once loaded; DistanceKm is derived per query
// and never persisted.
type StoreRecord struct {
	ID         string         // Opaque catalog identifier
	Name       string         // Display name
	Address    string         // Full street address
	Coordinate geo.Coordinate // Store location
	Chain      string         // Chain slug (see ValidChains), may be unknown
	DistanceKm float64        // Distance from the query origin in km, 0 until computed
}
