package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LocationPolicyResponse is the acquisition policy handed to device
// clients. Durations are milliseconds, matching the device geolocation
// APIs that consume them.
type LocationPolicyResponse struct {
	HighAccuracyTimeoutMs int64 `json:"highAccuracyTimeoutMs"`
	HighAccuracyMaxAgeMs  int64 `json:"highAccuracyMaxAgeMs"`
	LowAccuracyTimeoutMs  int64 `json:"lowAccuracyTimeoutMs"`
	LowAccuracyMaxAgeMs   int64 `json:"lowAccuracyMaxAgeMs"`
}

// LocationPolicy handles GET /internal/location/policy. The fix
// acquisition itself runs on the device; this endpoint is where devices
// fetch the configured timeout and max-age windows.
func (h *Handlers) LocationPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, LocationPolicyResponse{
		HighAccuracyTimeoutMs: h.policy.HighAccuracyTimeout.Milliseconds(),
		HighAccuracyMaxAgeMs:  h.policy.HighAccuracyMaxAge.Milliseconds(),
		LowAccuracyTimeoutMs:  h.policy.LowAccuracyTimeout.Milliseconds(),
		LowAccuracyMaxAgeMs:   h.policy.LowAccuracyMaxAge.Milliseconds(),
	})
}
