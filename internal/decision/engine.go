package decision

import (
	"fmt"

	"investlab/internal/domain"
	"investlab/internal/rng"

	"github.com/maja42/goval"
	"github.com/shopspring/decimal"
)

// DefaultPartialEffect is the fraction of an option's impact that
// lands when the full-effect draw fails
const DefaultPartialEffect = 0.5

type Config struct {
	PartialEffect float64
}

func DefaultConfig() Config {
	return Config{PartialEffect: DefaultPartialEffect}
}

// Engine holds a scenario's script. it has no per-run state, so one
// engine can drive any number of runs as long as each has its own State
type Engine struct {
	schedule      map[int][]domain.DecisionTemplate
	partialEffect float64
	evaluator     *goval.Evaluator
}

func NewEngine(templates []domain.DecisionTemplate, cfg Config) (*Engine, error) {
	if cfg.PartialEffect < 0 || cfg.PartialEffect > 1 {
		return nil, fmt.Errorf("partial effect must be in [0, 1], got %f", cfg.PartialEffect)
	}

	seen := map[string]bool{}
	schedule := map[int][]domain.DecisionTemplate{}
	for _, t := range templates {
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate decision template %s", t.ID)
		}
		if len(t.Options) == 0 {
			return nil, fmt.Errorf("decision template %s has no options", t.ID)
		}
		seen[t.ID] = true
		schedule[t.TriggerIndex] = append(schedule[t.TriggerIndex], t)
	}

	return &Engine{
		schedule:      schedule,
		partialEffect: cfg.PartialEffect,
		evaluator:     goval.NewEvaluator(),
	}, nil
}

// Advance moves the run one step forward and sets its value to next.
// the run completes when it reaches its duration, otherwise the first
// eligible template scheduled at the new index is offered
func (e *Engine) Advance(s *State, next decimal.Decimal) error {
	switch s.Phase {
	case PhaseComplete:
		return domain.ErrScenarioComplete
	case PhaseAwaitingDecision:
		return domain.ErrAwaitingDecision
	}

	index := s.CurrentIndex + 1
	var pending *domain.DecisionTemplate
	if index < s.Duration {
		var err error
		pending, err = e.nextTemplate(s, index, next)
		if err != nil {
			return err
		}
	}

	s.CurrentIndex = index
	s.Value = next
	s.History = append(s.History, Snapshot{Index: index, Value: next})
	e.settle(s, pending)

	return nil
}

// Resolve picks option i of the pending template and draws whether it
// lands fully. the run's value is left alone, which is what scenarios
// that track several metrics want. see Choose for the scalar version
func (e *Engine) Resolve(s *State, i int, src rng.Source) (*Outcome, error) {
	if s.Phase != PhaseAwaitingDecision || s.Pending == nil {
		return nil, domain.ErrNoPendingDecision
	}
	template := *s.Pending
	if i < 0 || i >= len(template.Options) {
		return nil, fmt.Errorf(
			"%w: %d not in [0, %d) for %s",
			domain.ErrUnknownDecisionOption,
			i,
			len(template.Options),
			template.ID,
		)
	}
	option := template.Options[i]

	outcome := Outcome{
		Index:       s.CurrentIndex,
		TemplateID:  template.ID,
		OptionIndex: i,
		Option:      option,
		RiskFactor:  DrawRiskFactor(src, option.ProbabilityOfFullEffect, e.partialEffect),
		ValueBefore: s.Value,
		ValueAfter:  s.Value,
	}

	// another template may be waiting at the same index
	s.Consumed[template.ID] = true
	pending, err := e.nextTemplate(s, s.CurrentIndex, s.Value)
	if err != nil {
		delete(s.Consumed, template.ID)
		return nil, err
	}

	s.Pending = nil
	s.Outcomes = append(s.Outcomes, outcome)
	e.settle(s, pending)

	return &s.Outcomes[len(s.Outcomes)-1], nil
}

// Choose resolves the pending decision and scales the run's value by
// 1 + impact% x riskFactor. affordability is the caller's problem
func (e *Engine) Choose(s *State, i int, src rng.Source) (*Outcome, error) {
	outcome, err := e.Resolve(s, i, src)
	if err != nil {
		return nil, err
	}

	multiplier := decimal.NewFromFloat(outcome.Option.ImpactPercent).
		Mul(decimal.NewFromFloat(outcome.RiskFactor)).
		Div(decimal.NewFromInt(100)).
		Add(decimal.NewFromInt(1))
	s.Value = s.Value.Mul(multiplier)
	s.History = append(s.History, Snapshot{
		Index:      s.CurrentIndex,
		Value:      s.Value,
		TemplateID: outcome.TemplateID,
	})

	outcome.ValueAfter = s.Value
	return outcome, nil
}

// Finish ends the run early, eg on bankruptcy
func (e *Engine) Finish(s *State, reason string) {
	s.Phase = PhaseComplete
	s.Pending = nil
	s.EndReason = reason
}

func (e *Engine) settle(s *State, pending *domain.DecisionTemplate) {
	switch {
	case pending != nil:
		s.Pending = pending
		s.Phase = PhaseAwaitingDecision
	case s.CurrentIndex >= s.Duration:
		s.Phase = PhaseComplete
	default:
		s.Phase = PhaseRunning
	}
}

func (e *Engine) nextTemplate(s *State, index int, value decimal.Decimal) (*domain.DecisionTemplate, error) {
	for _, t := range e.schedule[index] {
		if s.Consumed[t.ID] {
			continue
		}
		ok, err := e.eligible(t, s, index, value)
		if err != nil {
			return nil, err
		}
		if ok {
			template := t
			return &template, nil
		}
	}
	return nil, nil
}

func (e *Engine) eligible(t domain.DecisionTemplate, s *State, index int, value decimal.Decimal) (bool, error) {
	if t.Condition == "" {
		return true, nil
	}

	variables := map[string]interface{}{}
	for k, v := range s.Vars {
		variables[k] = v
	}
	variables["index"] = index
	variables["duration"] = s.Duration
	variables["value"] = value.InexactFloat64()

	result, err := e.evaluator.Evaluate(t.Condition, variables, nil)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition of %s: %w", t.ID, err)
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("condition of %s returned %T, expected bool", t.ID, result)
	}
	return ok, nil
}

// DrawRiskFactor is 1 with probability pFull, partial otherwise
func DrawRiskFactor(src rng.Source, pFull, partial float64) float64 {
	if src.Float64() < pFull {
		return 1
	}
	return partial
}
