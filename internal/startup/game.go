package startup

import (
	"fmt"
	"math"

	"investlab/internal/decision"
	"investlab/internal/domain"
	"investlab/internal/rng"

	"github.com/shopspring/decimal"
)

type Config struct {
	Engine decision.Config
	// revenue kept from one quarter to the next
	RevenueDecay float64
	// revenue kept when a decision adds new revenue
	RevenueCarry float64
	// burn rate can't exceed this fraction of funding
	BurnCap float64
}

func DefaultConfig() Config {
	return Config{
		Engine:       decision.DefaultConfig(),
		RevenueDecay: 0.9,
		RevenueCarry: 0.8,
		BurnCap:      0.3,
	}
}

const (
	EndBankrupt = "bankrupt"
	EndIPO      = "ipo"
)

type QuarterReport struct {
	Quarter     int                 `json:"quarter"`
	Valuation   float64             `json:"valuation"`
	Revenue     float64             `json:"revenue"`
	Funding     float64             `json:"funding"`
	Stage       string              `json:"stage"`
	MarketEvent *domain.MarketEvent `json:"marketEvent,omitempty"`
	// bankrupt or ipo when the quarter ended the game
	EndReason string `json:"endReason,omitempty"`
}

// Game is one run of the startup scenario. the decision state's value
// tracks valuation, the rest of the company lives in Company
type Game struct {
	Company  domain.Company  `json:"company"`
	State    *decision.State `json:"state"`
	History  []QuarterReport `json:"history"`
	IPOPrice int             `json:"ipoPrice,omitempty"`

	script domain.StartupScript
	engine *decision.Engine
	src    rng.Source
	cfg    Config
}

func Start(script domain.StartupScript, cfg Config, src rng.Source) (*Game, error) {
	for _, t := range script.Decisions {
		for _, o := range t.Options {
			for metric := range o.Effects {
				if !knownMetric(metric) {
					return nil, fmt.Errorf("decision %s: unknown metric %q", t.ID, metric)
				}
			}
		}
	}
	engine, err := decision.NewEngine(script.Decisions, cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to build startup script: %w", err)
	}
	if src == nil {
		src = rng.New()
	}

	company := script.Company
	company.Stage = StageFor(company)
	state := decision.NewState(script.Duration, decimal.NewFromFloat(company.Valuation))
	state.Vars = vars(company)

	return &Game{
		Company: company,
		State:   state,
		History: []QuarterReport{report(1, company, nil)},
		script:  script,
		engine:  engine,
		src:     src,
		cfg:     cfg,
	}, nil
}

// Quarter is 1-based, the run's index is quarters elapsed
func (g *Game) Quarter() int {
	return g.State.CurrentIndex + 1
}

func (g *Game) AdvanceQuarter() (*QuarterReport, error) {
	switch g.State.Phase {
	case decision.PhaseComplete:
		return nil, domain.ErrScenarioComplete
	case decision.PhaseAwaitingDecision:
		return nil, domain.ErrAwaitingDecision
	}

	projected := g.Company.Funding - g.Company.BurnRate + g.Company.Revenue
	if projected <= 0 {
		g.engine.Finish(g.State, EndBankrupt)
		r := report(g.Quarter(), g.Company, nil)
		r.EndReason = EndBankrupt
		return &r, nil
	}

	next := g.Company
	next.Funding = projected
	next.Revenue = math.Max(0, next.Revenue*g.cfg.RevenueDecay)

	var event *domain.MarketEvent
	if len(g.script.Events) > 0 && g.src.Float64() < g.script.EventProbability {
		e := g.script.Events[int(g.src.Float64()*float64(len(g.script.Events)))]
		next = applyMarketEvent(next, e)
		event = &e
	}
	next.Stage = StageFor(next)

	prevVars := g.State.Vars
	g.State.Vars = vars(next)
	if err := g.engine.Advance(g.State, decimal.NewFromFloat(next.Valuation)); err != nil {
		g.State.Vars = prevVars
		return nil, err
	}
	g.Company = next

	r := report(g.Quarter(), next, event)
	if next.Stage == StageIpoReady {
		g.IPOPrice = int(math.Round(next.Valuation / 1_000_000))
		g.engine.Finish(g.State, EndIPO)
		r.EndReason = EndIPO
	}
	g.History = append(g.History, r)

	return &r, nil
}

type DecisionResult struct {
	Outcome *decision.Outcome `json:"outcome"`
	Company domain.Company    `json:"company"`
}

// Decide checks the option is affordable, then lets the engine draw
// how well it lands
func (g *Game) Decide(i int) (*DecisionResult, error) {
	if !g.State.AwaitingDecision() || g.State.Pending == nil {
		return nil, domain.ErrNoPendingDecision
	}
	options := g.State.Pending.Options
	if i < 0 || i >= len(options) {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownDecisionOption, i)
	}
	if cost := options[i].Cost; cost > g.Company.Funding {
		return nil, fmt.Errorf(
			"%w: %s costs %.0f, funding is %.0f",
			domain.ErrInsufficientFunds,
			options[i].Text,
			cost,
			g.Company.Funding,
		)
	}

	outcome, err := g.engine.Resolve(g.State, i, g.src)
	if err != nil {
		return nil, err
	}

	next := g.Company
	next.Funding = math.Max(0, next.Funding-outcome.Option.Cost)
	next = applyEffects(next, outcome.Option.Effects, outcome.RiskFactor, g.cfg)
	g.Company = next

	valuation := decimal.NewFromFloat(next.Valuation)
	g.State.Value = valuation
	g.State.Vars = vars(next)
	g.State.History = append(g.State.History, decision.Snapshot{
		Index:      g.State.CurrentIndex,
		Value:      valuation,
		TemplateID: outcome.TemplateID,
	})
	outcome.ValueAfter = valuation

	return &DecisionResult{
		Outcome: outcome,
		Company: next,
	}, nil
}

func (g *Game) Bankrupt() bool {
	return g.State.EndReason == EndBankrupt
}

func (g *Game) WentPublic() bool {
	return g.State.EndReason == EndIPO
}

// ExperiencePoints is only earned by reaching IPO
func (g *Game) ExperiencePoints() int {
	if !g.WentPublic() {
		return 0
	}
	score := int(math.Round(g.Company.Valuation / 1_000_000))
	if score*10 < 100 {
		return 100
	}
	return score * 10
}

func report(quarter int, c domain.Company, event *domain.MarketEvent) QuarterReport {
	return QuarterReport{
		Quarter:     quarter,
		Valuation:   c.Valuation,
		Revenue:     c.Revenue,
		Funding:     c.Funding,
		Stage:       c.Stage,
		MarketEvent: event,
	}
}
