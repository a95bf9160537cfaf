package catalog

import (
	"context"

	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

// MemoryCatalog serves a fixed store list. Used by the CLI and tests.
type MemoryCatalog struct {
	records []stores.StoreRecord
}

// NewMemoryCatalog creates a catalog over the given records.
func NewMemoryCatalog(records []stores.StoreRecord) *MemoryCatalog {
	return &MemoryCatalog{records: records}
}

// Chains returns the distinct chain slugs present in the records.
func (c *MemoryCatalog) Chains(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var chains []string
	for _, s := range c.records {
		if !seen[s.Chain] {
			seen[s.Chain] = true
			chains = append(chains, s.Chain)
		}
	}
	return chains, nil
}

// ListStores returns the records, optionally filtered by chain.
func (c *MemoryCatalog) ListStores(ctx context.Context, chain string) ([]stores.StoreRecord, error) {
	if chain == "" {
		out := make([]stores.StoreRecord, len(c.records))
		copy(out, c.records)
		return out, nil
	}
	var out []stores.StoreRecord
	for _, s := range c.records {
		if s.Chain == chain {
			out = append(out, s)
		}
	}
	return out, nil
}

// FindNearby returns stores within radiusKm of origin, nearest first.
func (c *MemoryCatalog) FindNearby(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]stores.StoreRecord, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	return rankAndRound(c.records, origin, radiusKm), nil
}
