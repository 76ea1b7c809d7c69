package api

import (
	"fmt"

	"investlab/internal/crisis"
	"investlab/internal/decision"
	"investlab/internal/domain"
	"investlab/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createCrisisSessionRequest struct {
	ScenarioID string  `json:"scenarioID" binding:"required"`
	Seed       *uint64 `json:"seed"`
}

type crisisSessionResponse struct {
	SessionID uuid.UUID                `json:"sessionID"`
	Scenario  string                   `json:"scenario"`
	Summary   crisis.Summary           `json:"summary"`
	Pending   *domain.DecisionTemplate `json:"pending,omitempty"`
	Market    []domain.PricePoint      `json:"market"`
	Portfolio []domain.PricePoint      `json:"portfolio"`
	Days      []crisis.Day             `json:"days,omitempty"`
	Outcome   *decision.Outcome        `json:"outcome,omitempty"`
}

func newCrisisSessionResponse(id uuid.UUID, run *crisis.Run) crisisSessionResponse {
	return crisisSessionResponse{
		SessionID: id,
		Scenario:  run.Scenario.Name,
		Summary:   run.Summary(),
		Pending:   run.State.Pending,
		Market:    run.Market,
		Portfolio: run.State.Values(),
	}
}

func (h ApiHandler) createCrisisSession(c *gin.Context) {
	var requestBody createCrisisSessionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	scenario, err := h.Catalog.Crisis(requestBody.ScenarioID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	run, err := crisis.Start(scenario, h.Config.Crisis(), h.NewSource(requestBody.Seed))
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to start crisis: %w", err), c)
		return
	}
	id := h.CrisisSessions.add(run)
	sessionsStarted.WithLabelValues("crisis").Inc()

	c.JSON(200, newCrisisSessionResponse(id, run))
}

type advanceCrisisRequest struct {
	// advance stops early at a decision or the end of the scenario
	Days int `json:"days" binding:"gte=0,lte=1000"`
}

func (h ApiHandler) advanceCrisis(c *gin.Context) {
	var requestBody advanceCrisisRequest
	if err := bindOptionalJSON(c, &requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}
	if requestBody.Days == 0 {
		requestBody.Days = 1
	}

	var out crisisSessionResponse
	err := h.CrisisSessions.with(c.Param("id"), func(run *crisis.Run) error {
		days := []crisis.Day{}
		for i := 0; i < requestBody.Days; i++ {
			day, err := run.Advance()
			if err != nil {
				// nothing advanced yet, report it
				if i == 0 {
					return err
				}
				break
			}
			days = append(days, *day)
			if day.Pending != nil || day.Complete {
				break
			}
		}

		id, _ := uuid.Parse(c.Param("id"))
		out = newCrisisSessionResponse(id, run)
		out.Days = days
		return nil
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, out)
}

type decideRequest struct {
	Option *int `json:"option" binding:"required,gte=0"`
}

func (h ApiHandler) decideCrisis(c *gin.Context) {
	var requestBody decideRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	var out crisisSessionResponse
	err := h.CrisisSessions.with(c.Param("id"), func(run *crisis.Run) error {
		outcome, err := run.Decide(*requestBody.Option)
		if err != nil {
			return err
		}
		observeDecision("crisis", outcome.FullEffect())
		logger.FromContext(c.Request.Context()).Infow("crisis decision",
			"template", outcome.TemplateID,
			"option", outcome.OptionIndex,
			"riskFactor", outcome.RiskFactor,
		)

		id, _ := uuid.Parse(c.Param("id"))
		out = newCrisisSessionResponse(id, run)
		out.Outcome = outcome
		return nil
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, out)
}
