package api

import (
	"fmt"

	"investlab/internal/domain"
	"investlab/internal/logger"
	"investlab/internal/startup"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createStartupSessionRequest struct {
	Seed *uint64 `json:"seed"`
}

type startupSessionResponse struct {
	SessionID        uuid.UUID                `json:"sessionID"`
	Quarter          int                      `json:"quarter"`
	Duration         int                      `json:"duration"`
	Company          domain.Company           `json:"company"`
	History          []startup.QuarterReport  `json:"history"`
	Pending          *domain.DecisionTemplate `json:"pending,omitempty"`
	Complete         bool                     `json:"complete"`
	EndReason        string                   `json:"endReason,omitempty"`
	IPOPrice         int                      `json:"ipoPrice,omitempty"`
	ExperiencePoints int                      `json:"experiencePoints"`
	Result           *startup.DecisionResult  `json:"result,omitempty"`
}

func newStartupSessionResponse(id uuid.UUID, game *startup.Game) startupSessionResponse {
	return startupSessionResponse{
		SessionID:        id,
		Quarter:          game.Quarter(),
		Duration:         game.State.Duration,
		Company:          game.Company,
		History:          game.History,
		Pending:          game.State.Pending,
		Complete:         game.State.Complete(),
		EndReason:        game.State.EndReason,
		IPOPrice:         game.IPOPrice,
		ExperiencePoints: game.ExperiencePoints(),
	}
}

func (h ApiHandler) createStartupSession(c *gin.Context) {
	var requestBody createStartupSessionRequest
	if err := bindOptionalJSON(c, &requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	game, err := startup.Start(h.Catalog.Startup, h.Config.Startup(), h.NewSource(requestBody.Seed))
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to start startup game: %w", err), c)
		return
	}
	id := h.StartupSessions.add(game)
	sessionsStarted.WithLabelValues("startup").Inc()

	c.JSON(200, newStartupSessionResponse(id, game))
}

func (h ApiHandler) advanceStartup(c *gin.Context) {
	var out startupSessionResponse
	err := h.StartupSessions.with(c.Param("id"), func(game *startup.Game) error {
		if _, err := game.AdvanceQuarter(); err != nil {
			return err
		}
		id, _ := uuid.Parse(c.Param("id"))
		out = newStartupSessionResponse(id, game)
		return nil
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, out)
}

func (h ApiHandler) decideStartup(c *gin.Context) {
	var requestBody decideRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	var out startupSessionResponse
	err := h.StartupSessions.with(c.Param("id"), func(game *startup.Game) error {
		result, err := game.Decide(*requestBody.Option)
		if err != nil {
			return err
		}
		observeDecision("startup", result.Outcome.FullEffect())
		logger.FromContext(c.Request.Context()).Infow("startup decision",
			"template", result.Outcome.TemplateID,
			"option", result.Outcome.OptionIndex,
			"riskFactor", result.Outcome.RiskFactor,
		)

		id, _ := uuid.Parse(c.Param("id"))
		out = newStartupSessionResponse(id, game)
		out.Result = result
		return nil
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, out)
}
