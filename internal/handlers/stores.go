package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/companion-service/internal/catalog"
	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

// StoreResponse is a single store in a lookup response
type StoreResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Chain      string  `json:"chain"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distanceKm"`
	PriceTier  int     `json:"priceTier"`
}

// NearbyStores handles GET /internal/stores/nearby
func (h *Handlers) NearbyStores(c *gin.Context) {
	origin, radius, ok := h.lookupParams(c)
	if !ok {
		return
	}

	found, err := h.catalog.FindNearby(c.Request.Context(), origin, radius)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": toStoreResponses(found)})
}

// CheapestStores handles GET /internal/stores/cheapest. Nearby stores are
// re-ranked by chain price tier instead of distance.
func (h *Handlers) CheapestStores(c *gin.Context) {
	origin, radius, ok := h.lookupParams(c)
	if !ok {
		return
	}

	found, err := h.catalog.FindNearby(c.Request.Context(), origin, radius)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": toStoreResponses(stores.RankByPrice(found))})
}

func (h *Handlers) lookupParams(c *gin.Context) (geo.Coordinate, float64, bool) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat"})
		return geo.Coordinate{}, 0, false
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lon"})
		return geo.Coordinate{}, 0, false
	}
	origin := geo.Coordinate{Latitude: lat, Longitude: lon}
	if err := origin.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return geo.Coordinate{}, 0, false
	}

	radius := h.nearbyRadiusKm
	if raw := c.Query("radiusKm"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radiusKm"})
			return geo.Coordinate{}, 0, false
		}
	}
	return origin, radius, true
}

func (h *Handlers) lookupError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store catalog unavailable"})
		return
	}
	h.logger.Error().Err(err).Msg("store lookup failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "store lookup failed"})
}

func toStoreResponses(records []stores.StoreRecord) []StoreResponse {
	out := make([]StoreResponse, 0, len(records))
	for _, s := range records {
		out = append(out, StoreResponse{
			ID:         s.ID,
			Name:       s.Name,
			Address:    s.Address,
			Chain:      s.Chain,
			Latitude:   s.Coordinate.Latitude,
			Longitude:  s.Coordinate.Longitude,
			DistanceKm: s.DistanceKm,
			PriceTier:  stores.PriceTier(s.Chain),
		})
	}
	return out
}
