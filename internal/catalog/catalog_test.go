package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

var zagrebCenter = geo.Coordinate{Latitude: 45.8150, Longitude: 15.9819}

func catalogFixture() []stores.StoreRecord {
	return []stores.StoreRecord{
		{ID: "s1", Name: "Konzum Ilica", Chain: "konzum", Coordinate: geo.Coordinate{Latitude: 45.8131, Longitude: 15.9685}},
		{ID: "s2", Name: "Lidl Vukovarska", Chain: "lidl", Coordinate: geo.Coordinate{Latitude: 45.7990, Longitude: 15.9760}},
		{ID: "s3", Name: "Plodine Dubrava", Chain: "plodine", Coordinate: geo.Coordinate{Latitude: 45.8320, Longitude: 16.0650}},
	}
}

func TestMemoryCatalog_FindNearby(t *testing.T) {
	c := NewMemoryCatalog(catalogFixture())
	found, err := c.FindNearby(context.Background(), zagrebCenter, 3.0)
	require.NoError(t, err)
	require.NotEmpty(t, found)
	for i, s := range found {
		assert.LessOrEqual(t, s.DistanceKm, 3.0)
		if i > 0 {
			assert.GreaterOrEqual(t, s.DistanceKm, found[i-1].DistanceKm)
		}
		// Distances in responses are rounded to one decimal.
		assert.Equal(t, geo.RoundKm(s.DistanceKm), s.DistanceKm)
	}
}

func TestMemoryCatalog_FindNearbyInvalidOrigin(t *testing.T) {
	c := NewMemoryCatalog(catalogFixture())
	_, err := c.FindNearby(context.Background(), geo.Coordinate{Latitude: 95}, 3.0)
	assert.Error(t, err)
}

func TestMemoryCatalog_Chains(t *testing.T) {
	c := NewMemoryCatalog(catalogFixture())
	chains, err := c.Chains(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"konzum", "lidl", "plodine"}, chains)
}

// failingSource fails a scripted number of times before delegating.
type failingSource struct {
	*MemoryCatalog
	failures int
}

func (f *failingSource) Chains(ctx context.Context) ([]string, error) {
	if f.failures > 0 {
		f.failures--
		return nil, ErrUnavailable
	}
	return f.MemoryCatalog.Chains(ctx)
}

func TestCachedCatalog_WarmupAndServe(t *testing.T) {
	source := NewMemoryCatalog(catalogFixture())
	cache := NewCachedCatalog(source, time.Hour, 3, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, cache.Warmup(ctx))

	found, err := cache.FindNearby(ctx, zagrebCenter, 10)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestCachedCatalog_LazyLoadOnFirstLookup(t *testing.T) {
	cache := NewCachedCatalog(NewMemoryCatalog(catalogFixture()), time.Hour, 3, zerolog.Nop())
	found, err := cache.FindNearby(context.Background(), zagrebCenter, 10)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestCachedCatalog_ServesStaleOnRefreshFailure(t *testing.T) {
	source := &failingSource{MemoryCatalog: NewMemoryCatalog(catalogFixture())}
	cache := NewCachedCatalog(source, 0, 3, zerolog.Nop()) // TTL 0: always stale
	ctx := context.Background()

	require.NoError(t, cache.Warmup(ctx))

	source.failures = 1
	found, err := cache.FindNearby(ctx, zagrebCenter, 10)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestCachedCatalog_FirstLoadFailureSurfaces(t *testing.T) {
	source := &failingSource{MemoryCatalog: NewMemoryCatalog(nil), failures: 1}
	cache := NewCachedCatalog(source, time.Hour, 3, zerolog.Nop())
	_, err := cache.FindNearby(context.Background(), zagrebCenter, 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}
