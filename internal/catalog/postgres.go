package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

// PostgresCatalog reads the supermarket catalog from the supermarkets table.
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog creates a catalog over an existing connection pool.
func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

// Chains returns the distinct chain slugs present in the catalog.
func (c *PostgresCatalog) Chains(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT DISTINCT chain FROM supermarkets WHERE active = true ORDER BY chain
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query chains: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var chains []string
	for rows.Next() {
		var chain string
		if err := rows.Scan(&chain); err != nil {
			return nil, fmt.Errorf("scan chain row: %w", err)
		}
		chains = append(chains, chain)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: iterate chain rows: %v", ErrUnavailable, rows.Err())
	}
	return chains, nil
}

// ListStores returns all catalog records, optionally for a single chain.
func (c *PostgresCatalog) ListStores(ctx context.Context, chain string) ([]stores.StoreRecord, error) {
	query := `
		SELECT id, name, address, chain, latitude, longitude
		FROM supermarkets
		WHERE active = true
	`
	args := []any{}
	if chain != "" {
		query += " AND chain = $1"
		args = append(args, chain)
	}
	query += " ORDER BY id"

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query supermarkets: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var records []stores.StoreRecord
	for rows.Next() {
		var s stores.StoreRecord
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Chain, &s.Coordinate.Latitude, &s.Coordinate.Longitude); err != nil {
			return nil, fmt.Errorf("scan supermarket row: %w", err)
		}
		records = append(records, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: iterate supermarket rows: %v", ErrUnavailable, rows.Err())
	}
	return records, nil
}

// FindNearby returns stores within radiusKm of origin, nearest first.
func (c *PostgresCatalog) FindNearby(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]stores.StoreRecord, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	all, err := c.ListStores(ctx, "")
	if err != nil {
		return nil, err
	}
	return rankAndRound(all, origin, radiusKm), nil
}

// UpsertStores writes imported catalog records. Used by the import CLI.
func (c *PostgresCatalog) UpsertStores(ctx context.Context, records []stores.StoreRecord) (int, error) {
	written := 0
	for _, s := range records {
		_, err := c.pool.Exec(ctx, `
			INSERT INTO supermarkets (id, name, address, chain, latitude, longitude, active)
			VALUES ($1, $2, $3, $4, $5, $6, true)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				chain = EXCLUDED.chain,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				active = true
		`, s.ID, s.Name, s.Address, s.Chain, s.Coordinate.Latitude, s.Coordinate.Longitude)
		if err != nil {
			return written, fmt.Errorf("upsert supermarket %s: %w", s.ID, err)
		}
		written++
	}
	return written, nil
}
