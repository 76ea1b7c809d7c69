package crisis

import (
	"fmt"

	"investlab/internal/decision"
	"investlab/internal/domain"
	"investlab/internal/pricepath"
	"investlab/internal/rng"

	"github.com/shopspring/decimal"
)

type Config struct {
	InitialValue decimal.Decimal
	// the market index starts here
	MarketStart float64
	// how far the portfolio can drift from the index each day, as a
	// fraction
	TrackingNoise float64
	PricePath     pricepath.Config
	Engine        decision.Config
}

func DefaultConfig() Config {
	return Config{
		InitialValue:  decimal.NewFromInt(1_000_000),
		MarketStart:   100,
		TrackingNoise: 0.005,
		PricePath:     pricepath.DefaultConfig(),
		Engine:        decision.DefaultConfig(),
	}
}

// Run is one playthrough of a crisis. it owns its state, market
// path and random source
type Run struct {
	Scenario domain.CrisisScenario
	State    *decision.State
	Market   []domain.PricePoint

	engine        *decision.Engine
	market        *pricepath.Generator
	src           rng.Source
	trackingNoise float64
}

func Start(scenario domain.CrisisScenario, cfg Config, src rng.Source) (*Run, error) {
	if src == nil {
		src = rng.New()
	}
	engine, err := decision.NewEngine(scenario.Decisions, cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to build decision script for %s: %w", scenario.ID, err)
	}
	market, err := pricepath.NewGenerator(
		cfg.PricePath,
		cfg.MarketStart,
		pricepath.CrisisRegime(scenario.Severity),
		src,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build market for %s: %w", scenario.ID, err)
	}

	return &Run{
		Scenario:      scenario,
		State:         decision.NewState(scenario.Duration, cfg.InitialValue),
		Market:        []domain.PricePoint{market.Current()},
		engine:        engine,
		market:        market,
		src:           src,
		trackingNoise: cfg.TrackingNoise,
	}, nil
}

type Day struct {
	Index          int                      `json:"index"`
	MarketPrice    float64                  `json:"marketPrice"`
	PortfolioValue decimal.Decimal          `json:"portfolioValue"`
	Pending        *domain.DecisionTemplate `json:"pending,omitempty"`
	Complete       bool                     `json:"complete"`
}

// Advance simulates one market day. the portfolio follows the index
// plus its own noise
func (r *Run) Advance() (*Day, error) {
	switch r.State.Phase {
	case decision.PhaseComplete:
		return nil, domain.ErrScenarioComplete
	case decision.PhaseAwaitingDecision:
		return nil, domain.ErrAwaitingDecision
	}

	prev := r.market.Current()
	point := r.market.Next()
	marketReturn := (point.Price - prev.Price) / prev.Price
	portfolioReturn := marketReturn + rng.Uniform(r.src, r.trackingNoise)

	next := r.State.Value.Mul(decimal.NewFromFloat(1 + portfolioReturn))
	if err := r.engine.Advance(r.State, next); err != nil {
		r.market.Rewind(prev)
		return nil, err
	}
	r.Market = append(r.Market, point)

	return r.today(), nil
}

func (r *Run) Decide(option int) (*decision.Outcome, error) {
	return r.engine.Choose(r.State, option, r.src)
}

// RunToEnd advances until the run completes, picking choose(template)
// whenever a decision comes up
func (r *Run) RunToEnd(choose func(domain.DecisionTemplate) int) error {
	for !r.State.Complete() {
		if r.State.AwaitingDecision() {
			if _, err := r.Decide(choose(*r.State.Pending)); err != nil {
				return err
			}
			continue
		}
		if _, err := r.Advance(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Run) today() *Day {
	return &Day{
		Index:          r.State.CurrentIndex,
		MarketPrice:    r.market.Current().Price,
		PortfolioValue: r.State.Value,
		Pending:        r.State.Pending,
		Complete:       r.State.Complete(),
	}
}

type Summary struct {
	ScenarioID      string          `json:"scenarioID"`
	Day             int             `json:"day"`
	Duration        int             `json:"duration"`
	Phase           decision.Phase  `json:"phase"`
	PortfolioValue  decimal.Decimal `json:"portfolioValue"`
	PortfolioReturn float64         `json:"portfolioReturn"`
	MarketReturn    float64         `json:"marketReturn"`
	Decisions       []string        `json:"decisions"`
}

// Summary compares the portfolio with the index. returns are fractions
func (r *Run) Summary() Summary {
	start := r.State.History[0].Value
	decisions := []string{}
	for _, o := range r.State.Outcomes {
		decisions = append(decisions, o.Option.Text)
	}

	return Summary{
		ScenarioID:      r.Scenario.ID,
		Day:             r.State.CurrentIndex,
		Duration:        r.State.Duration,
		Phase:           r.State.Phase,
		PortfolioValue:  r.State.Value,
		PortfolioReturn: r.State.Value.Sub(start).Div(start).InexactFloat64(),
		MarketReturn:    (r.Market[len(r.Market)-1].Price - r.Market[0].Price) / r.Market[0].Price,
		Decisions:       decisions,
	}
}
