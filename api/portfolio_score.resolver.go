package api

import (
	"fmt"

	"investlab/internal/scoring"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type holdingRequest struct {
	AssetID    string  `json:"assetID" binding:"required"`
	Percentage float64 `json:"percentage" binding:"gt=0,lte=100"`
}

type scorePortfolioRequest struct {
	// defaults to the configured budget
	Budget   *float64         `json:"budget" binding:"omitempty,gt=0"`
	Holdings []holdingRequest `json:"holdings" binding:"dive"`
}

type scorePortfolioResponse struct {
	Allocation       scoring.Allocation `json:"allocation"`
	Remaining        decimal.Decimal    `json:"remaining"`
	Score            scoring.Score      `json:"score"`
	ExperiencePoints int                `json:"experiencePoints"`
}

func (h ApiHandler) scorePortfolio(c *gin.Context) {
	var requestBody scorePortfolioRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	budget := h.Config.Budget
	if requestBody.Budget != nil {
		budget = *requestBody.Budget
	}
	allocation := scoring.NewAllocation(decimal.NewFromFloat(budget))
	for _, holding := range requestBody.Holdings {
		asset, err := h.Catalog.Asset(holding.AssetID)
		if err != nil {
			returnErrorJson(err, c)
			return
		}
		if err := allocation.Add(asset, holding.Percentage); err != nil {
			returnErrorJson(err, c)
			return
		}
	}

	score, err := scoring.ScoreAllocation(*allocation, h.Config.ScoringWeights)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, scorePortfolioResponse{
		Allocation:       *allocation,
		Remaining:        allocation.Remaining(),
		Score:            *score,
		ExperiencePoints: score.Composite,
	})
}
