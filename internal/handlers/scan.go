package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/companion-service/internal/nutrition"
	"github.com/cartwise/companion-service/internal/scan"
)

// ScanRequest carries either a decoded barcode or a base64 photo frame.
// When both are present the barcode wins; decoding it locally is free while
// vision identification is a paid upstream call.
type ScanRequest struct {
	Barcode     string `json:"barcode"`
	ImageBase64 string `json:"imageBase64"`
}

// ScanResponse is the identified product with its nutrition verdict.
type ScanResponse struct {
	Barcode  string             `json:"barcode"`
	Name     string             `json:"name,omitempty"`
	Brand    string             `json:"brand,omitempty"`
	Score    nutrition.Score    `json:"score"`
	Insights nutrition.Insights `json:"insights"`
}

// ScanProduct handles POST /internal/scan
func (h *Handlers) ScanProduct(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Barcode != "" {
		normalized := scan.NormalizeBarcode(req.Barcode)
		if normalized == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unusable barcode"})
			return
		}
		c.JSON(http.StatusOK, ScanResponse{
			Barcode:  normalized,
			Score:    nutrition.ComputeScore(nil),
			Insights: nutrition.ComputeInsights(nil),
		})
		return
	}

	if req.ImageBase64 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode or imageBase64 required"})
		return
	}
	if h.identifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "product identification not configured"})
		return
	}

	product, err := h.identifier.Identify(c.Request.Context(), req.ImageBase64)
	if err != nil {
		h.scanError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScanResponse{
		Barcode:  product.Barcode,
		Name:     product.Name,
		Brand:    product.Brand,
		Score:    nutrition.ComputeScore(product.Facts),
		Insights: nutrition.ComputeInsights(product.Facts),
	})
}

func (h *Handlers) scanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scan.ErrLowConfidence):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "product could not be identified with enough confidence"})
	case errors.Is(err, scan.ErrVisionUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "product identification temporarily unavailable"})
	default:
		h.logger.Error().Err(err).Msg("product identification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product identification failed"})
	}
}
