package api

import (
	"fmt"

	"investlab/internal/scoring"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createPortfolioSessionRequest struct {
	// defaults to the configured budget
	Budget *float64 `json:"budget" binding:"omitempty,gt=0"`
}

type portfolioSessionResponse struct {
	SessionID       uuid.UUID          `json:"sessionID"`
	Allocation      scoring.Allocation `json:"allocation"`
	TotalPercentage float64            `json:"totalPercentage"`
	Remaining       decimal.Decimal    `json:"remaining"`
	// nil until something is held
	Score *scoring.Score `json:"score"`
}

func (h ApiHandler) newPortfolioSessionResponse(id uuid.UUID, a *scoring.Allocation) (*portfolioSessionResponse, error) {
	out := &portfolioSessionResponse{
		SessionID:       id,
		Allocation:      *a,
		TotalPercentage: a.TotalPercentage(),
		Remaining:       a.Remaining(),
	}
	if len(a.Holdings) == 0 {
		return out, nil
	}

	score, err := scoring.ScoreAllocation(*a, h.Config.ScoringWeights)
	if err != nil {
		return nil, err
	}
	out.Score = score
	return out, nil
}

func (h ApiHandler) createPortfolioSession(c *gin.Context) {
	var requestBody createPortfolioSessionRequest
	if err := bindOptionalJSON(c, &requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	budget := h.Config.Budget
	if requestBody.Budget != nil {
		budget = *requestBody.Budget
	}
	allocation := scoring.NewAllocation(decimal.NewFromFloat(budget))
	id := h.PortfolioSessions.add(allocation)
	sessionsStarted.WithLabelValues("portfolio").Inc()

	out, err := h.newPortfolioSessionResponse(id, allocation)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	c.JSON(200, out)
}

// withAllocation runs fn on the session's allocation and responds with
// the allocation as it is afterwards
func (h ApiHandler) withAllocation(c *gin.Context, fn func(*scoring.Allocation) error) {
	var out *portfolioSessionResponse
	err := h.PortfolioSessions.with(c.Param("id"), func(a *scoring.Allocation) error {
		if err := fn(a); err != nil {
			return err
		}
		id, _ := uuid.Parse(c.Param("id"))
		var err error
		out, err = h.newPortfolioSessionResponse(id, a)
		return err
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	c.JSON(200, out)
}

func (h ApiHandler) getPortfolioSession(c *gin.Context) {
	h.withAllocation(c, func(*scoring.Allocation) error { return nil })
}

func (h ApiHandler) addPortfolioHolding(c *gin.Context) {
	var requestBody holdingRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	asset, err := h.Catalog.Asset(requestBody.AssetID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	h.withAllocation(c, func(a *scoring.Allocation) error {
		return a.Add(asset, requestBody.Percentage)
	})
}

// removePortfolioHolding takes an asset id or symbol
func (h ApiHandler) removePortfolioHolding(c *gin.Context) {
	asset, err := h.Catalog.Asset(c.Param("assetID"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	h.withAllocation(c, func(a *scoring.Allocation) error {
		return a.Remove(asset.ID)
	})
}

func (h ApiHandler) resetPortfolioSession(c *gin.Context) {
	h.withAllocation(c, func(a *scoring.Allocation) error {
		a.Reset()
		return nil
	})
}
