package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/companion-service/internal/nutrition"
)

// NutritionRequest carries per-100g nutriment values. Facts may be null,
// which yields the not-available score.
type NutritionRequest struct {
	Facts *nutrition.Facts `json:"facts"`
}

// NutritionResponse is the computed score plus shopper-facing insights.
type NutritionResponse struct {
	Score    nutrition.Score    `json:"score"`
	Insights nutrition.Insights `json:"insights"`
}

// ScoreNutrition handles POST /internal/nutrition/score
func (h *Handlers) ScoreNutrition(c *gin.Context) {
	var req NutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, NutritionResponse{
		Score:    nutrition.ComputeScore(req.Facts),
		Insights: nutrition.ComputeInsights(req.Facts),
	})
}
