package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cartwise/companion-service/internal/geo"
)

var zagrebCenter = geo.Coordinate{Latitude: 45.8150, Longitude: 15.9819}

func testStores() []StoreRecord {
	return []StoreRecord{
		{ID: "s1", Name: "Konzum Ilica", Chain: "konzum", Coordinate: geo.Coordinate{Latitude: 45.8131, Longitude: 15.9685}},
		{ID: "s2", Name: "Lidl Vukovarska", Chain: "lidl", Coordinate: geo.Coordinate{Latitude: 45.7990, Longitude: 15.9760}},
		{ID: "s3", Name: "Plodine Dubrava", Chain: "plodine", Coordinate: geo.Coordinate{Latitude: 45.8320, Longitude: 16.0650}},
		{ID: "s4", Name: "Kaufland Zapad", Chain: "kaufland", Coordinate: geo.Coordinate{Latitude: 45.8010, Longitude: 15.9100}},
	}
}

func TestRank_FiltersByRadius(t *testing.T) {
	ranked := Rank(testStores(), zagrebCenter, 3.0)
	for _, s := range ranked {
		assert.LessOrEqual(t, s.DistanceKm, 3.0)
	}
	// Dubrava and Zapad stores are further than 3 km out.
	ids := make([]string, 0, len(ranked))
	for _, s := range ranked {
		ids = append(ids, s.ID)
	}
	assert.NotContains(t, ids, "s3")
}

func TestRank_SortedAscending(t *testing.T) {
	ranked := Rank(testStores(), zagrebCenter, 50)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].DistanceKm, ranked[i].DistanceKm)
	}
	assert.Len(t, ranked, 4)
}

func TestRank_StableForEqualDistances(t *testing.T) {
	// Two stores with precomputed identical distances keep input order.
	candidates := []StoreRecord{
		{ID: "first", DistanceKm: 1.2, Coordinate: geo.Coordinate{Latitude: 1, Longitude: 1}},
		{ID: "second", DistanceKm: 1.2, Coordinate: geo.Coordinate{Latitude: 2, Longitude: 2}},
		{ID: "third", DistanceKm: 0.4, Coordinate: geo.Coordinate{Latitude: 3, Longitude: 3}},
	}
	ranked := Rank(candidates, geo.Coordinate{}, 5)
	assert.Equal(t, "third", ranked[0].ID)
	assert.Equal(t, "first", ranked[1].ID)
	assert.Equal(t, "second", ranked[2].ID)
}

func TestRank_EmptyInput(t *testing.T) {
	assert.Empty(t, Rank(nil, zagrebCenter, 10))
}

func TestRank_ZeroRadiusKeepsCoincidentOnly(t *testing.T) {
	candidates := []StoreRecord{
		{ID: "here", Coordinate: zagrebCenter},
		{ID: "near", Coordinate: geo.Coordinate{Latitude: 45.8151, Longitude: 15.9820}},
	}
	ranked := Rank(candidates, zagrebCenter, 0)
	assert.Len(t, ranked, 1)
	assert.Equal(t, "here", ranked[0].ID)
}

func TestRank_ComputesMissingDistances(t *testing.T) {
	ranked := Rank(testStores(), zagrebCenter, 50)
	for _, s := range ranked {
		assert.Greater(t, s.DistanceKm, 0.0)
	}
}

func TestRankByPrice_CheaperTierFirst(t *testing.T) {
	candidates := []StoreRecord{
		{ID: "k", Chain: "konzum", DistanceKm: 0.3},
		{ID: "l", Chain: "lidl", DistanceKm: 4.8},
	}
	ranked := RankByPrice(candidates)
	// Lidl is tier 1 and precedes Konzum (tier 5) regardless of distance.
	assert.Equal(t, "l", ranked[0].ID)
	assert.Equal(t, "k", ranked[1].ID)
}

func TestRankByPrice_TieBrokenByDistanceThenOrder(t *testing.T) {
	candidates := []StoreRecord{
		{ID: "far-unknown", Chain: "spar", DistanceKm: 5.0},
		{ID: "near-unknown", Chain: "tommy", DistanceKm: 1.0},
		{ID: "same-unknown", Chain: "ribola", DistanceKm: 1.0},
	}
	ranked := RankByPrice(candidates)
	assert.Equal(t, "near-unknown", ranked[0].ID)
	assert.Equal(t, "same-unknown", ranked[1].ID)
	assert.Equal(t, "far-unknown", ranked[2].ID)
}

func TestRankByPrice_DoesNotMutateInput(t *testing.T) {
	candidates := []StoreRecord{
		{ID: "k", Chain: "konzum"},
		{ID: "l", Chain: "lidl"},
	}
	RankByPrice(candidates)
	assert.Equal(t, "k", candidates[0].ID)
}

func TestPriceTier(t *testing.T) {
	assert.Equal(t, 1, PriceTier("lidl"))
	assert.Equal(t, 5, PriceTier("konzum"))
	assert.Equal(t, DefaultPriceTier, PriceTier("spar"))
	assert.Equal(t, DefaultPriceTier, PriceTier(""))
}

func TestIsValidChain(t *testing.T) {
	assert.True(t, IsValidChain("lidl"))
	assert.False(t, IsValidChain("walmart"))
}
