package decision

import (
	"investlab/internal/domain"

	"github.com/shopspring/decimal"
)

type Phase string

const (
	PhaseRunning          Phase = "running"
	PhaseAwaitingDecision Phase = "awaitingDecision"
	PhaseComplete         Phase = "complete"
)

type Snapshot struct {
	Index int             `json:"index"`
	Value decimal.Decimal `json:"value"`
	// set when the snapshot was taken right after a decision
	TemplateID string `json:"templateID,omitempty"`
}

type Outcome struct {
	Index       int                   `json:"index"`
	TemplateID  string                `json:"templateID"`
	OptionIndex int                   `json:"optionIndex"`
	Option      domain.DecisionOption `json:"option"`
	RiskFactor  float64               `json:"riskFactor"`
	ValueBefore decimal.Decimal       `json:"valueBefore"`
	ValueAfter  decimal.Decimal       `json:"valueAfter"`
}

// FullEffect is false when the option only landed partially
func (o Outcome) FullEffect() bool {
	return o.RiskFactor == 1
}

// State is everything a single run knows. the engine reads and
// transforms it but never keeps a reference to it
type State struct {
	Phase        Phase           `json:"phase"`
	CurrentIndex int             `json:"currentIndex"`
	Duration     int             `json:"duration"`
	Value        decimal.Decimal `json:"value"`
	// extra values conditions can reference, eg a company's stage.
	// owned by the scenario driving the run
	Vars map[string]interface{} `json:"vars,omitempty"`

	History  []Snapshot               `json:"history"`
	Consumed map[string]bool          `json:"consumed"`
	Pending  *domain.DecisionTemplate `json:"pending,omitempty"`
	Outcomes []Outcome                `json:"outcomes"`
	// why the run ended before its duration, if it did
	EndReason string `json:"endReason,omitempty"`
}

func NewState(duration int, initialValue decimal.Decimal) *State {
	phase := PhaseRunning
	if duration <= 0 {
		phase = PhaseComplete
	}
	return &State{
		Phase:    phase,
		Duration: duration,
		Value:    initialValue,
		Vars:     map[string]interface{}{},
		History: []Snapshot{
			{Index: 0, Value: initialValue},
		},
		Consumed: map[string]bool{},
		Outcomes: []Outcome{},
	}
}

func (s State) Complete() bool {
	return s.Phase == PhaseComplete
}

func (s State) AwaitingDecision() bool {
	return s.Phase == PhaseAwaitingDecision
}

// Values is the history as plain series, for charts
func (s State) Values() []domain.PricePoint {
	out := make([]domain.PricePoint, 0, len(s.History))
	for _, snap := range s.History {
		out = append(out, domain.PricePoint{
			Index: snap.Index,
			Price: snap.Value.InexactFloat64(),
		})
	}
	return out
}
