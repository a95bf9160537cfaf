package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartwise/companion-service/internal/catalog"
	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/location"
	"github.com/cartwise/companion-service/internal/nutrition"
	"github.com/cartwise/companion-service/internal/proximity"
	"github.com/cartwise/companion-service/internal/scan"
	"github.com/cartwise/companion-service/internal/stores"
)

type scriptedIdentifier struct {
	product *scan.Product
	err     error
}

func (s *scriptedIdentifier) Identify(_ context.Context, _ string) (*scan.Product, error) {
	return s.product, s.err
}

func testStores() []stores.StoreRecord {
	return []stores.StoreRecord{
		{
			ID:         "st-1",
			Name:       "Konzum City",
			Address:    "Ilica 1",
			Chain:      "konzum",
			Coordinate: geo.Coordinate{Latitude: 45.8150, Longitude: 15.9819},
		},
		{
			ID:         "st-2",
			Name:       "Lidl Centar",
			Address:    "Ilica 20",
			Chain:      "lidl",
			Coordinate: geo.Coordinate{Latitude: 45.8155, Longitude: 15.9830},
		},
		{
			ID:         "st-3",
			Name:       "Plodine Jug",
			Address:    "Avenija 5",
			Chain:      "plodine",
			Coordinate: geo.Coordinate{Latitude: 45.7000, Longitude: 15.9000},
		},
	}
}

func setupRouter(t *testing.T, identifier ProductIdentifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.NewMemoryCatalog(testStores())
	monitor := proximity.NewMonitor(cat, nil, 0.5, zerolog.Nop())

	h := New(Config{
		Catalog:        cat,
		Monitor:        monitor,
		Identifier:     identifier,
		NearbyRadiusKm: 1.0,
		LocationPolicy: location.DefaultPolicy(),
		Logger:         zerolog.Nop(),
	})

	router := gin.New()
	router.GET("/internal/location/policy", h.LocationPolicy)
	router.GET("/internal/stores/nearby", h.NearbyStores)
	router.GET("/internal/stores/cheapest", h.CheapestStores)
	router.POST("/internal/proximity/evaluate", h.EvaluateProximity)
	router.POST("/internal/nutrition/score", h.ScoreNutrition)
	router.POST("/internal/scan", h.ScanProduct)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNearbyStoresSortedByDistance(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "GET", "/internal/stores/nearby?lat=45.8150&lon=15.9819&radiusKm=1.0", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Stores []StoreResponse `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Stores, 2, "far store must be filtered out")
	assert.Equal(t, "st-1", response.Stores[0].ID)
	assert.Equal(t, "st-2", response.Stores[1].ID)
	assert.LessOrEqual(t, response.Stores[0].DistanceKm, response.Stores[1].DistanceKm)
}

func TestNearbyStoresDefaultRadius(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "GET", "/internal/stores/nearby?lat=45.8150&lon=15.9819", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Stores []StoreResponse `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Stores, 2)
}

func TestNearbyStoresBadParams(t *testing.T) {
	router := setupRouter(t, nil)

	cases := []string{
		"/internal/stores/nearby",
		"/internal/stores/nearby?lat=abc&lon=15.9",
		"/internal/stores/nearby?lat=91.0&lon=15.9",
		"/internal/stores/nearby?lat=45.8&lon=15.9&radiusKm=-1",
	}
	for _, path := range cases {
		w := doJSON(t, router, "GET", path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestCheapestStoresRankedByTier(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "GET", "/internal/stores/cheapest?lat=45.8150&lon=15.9819&radiusKm=1.0", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Stores []StoreResponse `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Stores, 2)
	// Lidl carries a cheaper tier than Konzum even though Konzum is closer.
	assert.Equal(t, "st-2", response.Stores[0].ID)
	assert.Equal(t, "st-1", response.Stores[1].ID)
	assert.Less(t, response.Stores[0].PriceTier, response.Stores[1].PriceTier)
}

func TestLocationPolicy(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "GET", "/internal/location/policy", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp LocationPolicyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(8000), resp.HighAccuracyTimeoutMs)
	assert.Equal(t, int64(60000), resp.HighAccuracyMaxAgeMs)
	assert.Equal(t, int64(15000), resp.LowAccuracyTimeoutMs)
	assert.Equal(t, int64(300000), resp.LowAccuracyMaxAgeMs)
}

func TestEvaluateProximityTransition(t *testing.T) {
	router := setupRouter(t, nil)

	// First fix is right next to a store: FAR -> NEAR.
	w := doJSON(t, router, "POST", "/internal/proximity/evaluate", ProximityRequest{
		Latitude: 45.8150, Longitude: 15.9819,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ProximityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NEAR", resp.State)
	assert.True(t, resp.Changed)
	assert.NotEmpty(t, resp.Nearest)

	// Second fix far away: NEAR -> FAR, nearest empty.
	w = doJSON(t, router, "POST", "/internal/proximity/evaluate", ProximityRequest{
		Latitude: 44.0, Longitude: 15.0,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FAR", resp.State)
	assert.True(t, resp.Changed)
	assert.Empty(t, resp.Nearest)
}

func TestEvaluateProximityInvalidCoordinate(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "POST", "/internal/proximity/evaluate", ProximityRequest{
		Latitude: 120.0, Longitude: 15.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreNutrition(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "POST", "/internal/nutrition/score", NutritionRequest{
		Facts: &nutrition.Facts{
			Calories:     456,
			Sugar:        29.7,
			Sodium:       0.34,
			SaturatedFat: 8.1,
			Protein:      7.2,
			Fiber:        2.1,
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp NutritionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 65, resp.Score.Value)
	assert.Equal(t, nutrition.GradeC, resp.Score.Grade)
	assert.NotEmpty(t, resp.Insights.Warnings)
}

func TestScoreNutritionNullFacts(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "POST", "/internal/nutrition/score", NutritionRequest{Facts: nil})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp NutritionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Score.Value)
	assert.Equal(t, nutrition.GradeNA, resp.Score.Grade)
	assert.Empty(t, resp.Insights.Positive)
	assert.Empty(t, resp.Insights.Warnings)
}

func TestScanWithBarcode(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "POST", "/internal/scan", ScanRequest{Barcode: "036000291452"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0036000291452", resp.Barcode, "UPC-A is zero padded to EAN-13")
}

func TestScanWithUnusableBarcode(t *testing.T) {
	router := setupRouter(t, nil)

	// Bad check digit and all-zero placeholder both normalize to nothing.
	for _, barcode := range []string{"4006381333932", "0000000000000"} {
		w := doJSON(t, router, "POST", "/internal/scan", ScanRequest{Barcode: barcode})
		assert.Equal(t, http.StatusBadRequest, w.Code, barcode)
	}
}

func TestScanWithImage(t *testing.T) {
	identifier := &scriptedIdentifier{product: &scan.Product{
		Name:       "Dark Chocolate",
		Brand:      "Cartwise",
		Barcode:    "4006381333931",
		Confidence: 0.92,
		Facts:      &nutrition.Facts{Calories: 456, Sugar: 29.7, Sodium: 0.34, SaturatedFat: 8.1, Protein: 7.2, Fiber: 2.1},
	}}
	router := setupRouter(t, identifier)

	w := doJSON(t, router, "POST", "/internal/scan", ScanRequest{ImageBase64: "aW1hZ2U="})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dark Chocolate", resp.Name)
	assert.Equal(t, 65, resp.Score.Value)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name       string
		identifier ProductIdentifier
		wantStatus int
	}{
		{"low confidence", &scriptedIdentifier{err: scan.ErrLowConfidence}, http.StatusUnprocessableEntity},
		{"vision down", &scriptedIdentifier{err: scan.ErrVisionUnavailable}, http.StatusServiceUnavailable},
		{"unexpected", &scriptedIdentifier{err: errors.New("boom")}, http.StatusInternalServerError},
		{"not configured", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t, tt.identifier)
			w := doJSON(t, router, "POST", "/internal/scan", ScanRequest{ImageBase64: "aW1hZ2U="})
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestScanEmptyRequest(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(t, router, "POST", "/internal/scan", ScanRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheckWithoutDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(Config{Logger: zerolog.Nop()})

	router := gin.New()
	router.GET("/health", h.HealthCheck)

	w := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "not configured", resp.Database)
}
