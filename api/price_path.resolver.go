package api

import (
	"fmt"

	"investlab/internal/calculator"
	"investlab/internal/domain"
	"investlab/internal/pricepath"

	"github.com/gin-gonic/gin"
)

type generatePricePathRequest struct {
	InitialPrice float64 `json:"initialPrice" binding:"required,gt=0"`
	Regime       string  `json:"regime" binding:"required"`
	Steps        int     `json:"steps" binding:"required,gte=1,lte=10000"`
	Seed         *uint64 `json:"seed"`
}

type generatePricePathResponse struct {
	Points  []domain.PricePoint    `json:"points"`
	Metrics calculator.PathMetrics `json:"metrics"`
}

func (h ApiHandler) generatePricePath(c *gin.Context) {
	var requestBody generatePricePathRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	points, err := pricepath.Generate(
		h.Config.PricePath(),
		requestBody.InitialPrice,
		pricepath.Regime(requestBody.Regime),
		requestBody.Steps,
		h.NewSource(requestBody.Seed),
	)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	metrics, err := calculator.CalculatePathMetrics(points)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, generatePricePathResponse{
		Points:  points,
		Metrics: *metrics,
	})
}
