// Package handlers contains the HTTP endpoints of the companion service.
package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cartwise/companion-service/internal/catalog"
	"github.com/cartwise/companion-service/internal/location"
	"github.com/cartwise/companion-service/internal/proximity"
	"github.com/cartwise/companion-service/internal/scan"
)

// ProductIdentifier identifies a product from a camera capture.
type ProductIdentifier interface {
	Identify(ctx context.Context, imageBase64 string) (*scan.Product, error)
}

// Handlers bundles the endpoint dependencies. Everything is injected so
// tests can swap in in-memory catalogs and scripted identifiers.
type Handlers struct {
	catalog        catalog.Locator
	monitor        *proximity.Monitor
	identifier     ProductIdentifier
	pool           *pgxpool.Pool // Optional, only drives the health check
	nearbyRadiusKm float64
	policy         location.Policy
	logger         zerolog.Logger
}

// Config configures the handler set.
type Config struct {
	Catalog        catalog.Locator
	Monitor        *proximity.Monitor
	Identifier     ProductIdentifier
	Pool           *pgxpool.Pool
	NearbyRadiusKm float64
	LocationPolicy location.Policy
	Logger         zerolog.Logger
}

// New creates the handler set.
func New(cfg Config) *Handlers {
	return &Handlers{
		catalog:        cfg.Catalog,
		monitor:        cfg.Monitor,
		identifier:     cfg.Identifier,
		pool:           cfg.Pool,
		nearbyRadiusKm: cfg.NearbyRadiusKm,
		policy:         cfg.LocationPolicy,
		logger:         cfg.Logger,
	}
}
