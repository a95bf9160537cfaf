package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/companion-service/internal/geo"
)

// ProximityRequest carries one location fix. Zero is a valid coordinate
// so the fields carry no required binding.
type ProximityRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProximityResponse reports the state after the fix was evaluated.
type ProximityResponse struct {
	State   string          `json:"state"`
	Changed bool            `json:"changed"`
	Nearest []StoreResponse `json:"nearest"`
}

// EvaluateProximity handles POST /internal/proximity/evaluate
func (h *Handlers) EvaluateProximity(c *gin.Context) {
	var req ProximityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	coordinate := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := coordinate.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eval, err := h.monitor.Evaluate(c.Request.Context(), coordinate)
	if err != nil {
		// The monitor left its state untouched; the client retries on the
		// next fix rather than treating this as a hard failure.
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "store lookup failed",
			"state": string(eval.State),
		})
		return
	}

	c.JSON(http.StatusOK, ProximityResponse{
		State:   string(eval.State),
		Changed: eval.Changed,
		Nearest: toStoreResponses(eval.Nearest),
	})
}
