package decision

import (
	"errors"
	"testing"

	"investlab/internal/domain"
	"investlab/internal/rng"
	mock_rng "investlab/internal/rng/mocks"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func lehman() domain.DecisionTemplate {
	return domain.DecisionTemplate{
		ID:           "lehman",
		TriggerIndex: 2,
		Narrative:    "Lehman Brothers files for bankruptcy.",
		Options: []domain.DecisionOption{
			{Text: "Sell everything", ImpactPercent: -5, ProbabilityOfFullEffect: 1},
			{Text: "Buy bank stocks", ImpactPercent: 15, ProbabilityOfFullEffect: 0.6},
		},
	}
}

func newTestEngine(t *testing.T, templates ...domain.DecisionTemplate) *Engine {
	e, err := NewEngine(templates, DefaultConfig())
	require.NoError(t, err)
	return e
}

func advanceN(t *testing.T, e *Engine, s *State, n int) {
	for i := 0; i < n; i++ {
		require.NoError(t, e.Advance(s, s.Value))
	}
}

func TestEngine_Advance(t *testing.T) {
	t.Run("completes after exactly duration advances", func(t *testing.T) {
		e := newTestEngine(t)
		s := NewState(5, decimal.NewFromInt(100))

		for i := 0; i < 4; i++ {
			require.NoError(t, e.Advance(s, s.Value))
			require.Equal(t, PhaseRunning, s.Phase)
		}
		require.NoError(t, e.Advance(s, s.Value))
		require.True(t, s.Complete())
		require.Equal(t, 5, s.CurrentIndex)

		err := e.Advance(s, s.Value)
		require.True(t, errors.Is(err, domain.ErrScenarioComplete))
		require.Equal(t, 5, s.CurrentIndex)
		require.Len(t, s.History, 6)
	})

	t.Run("zero duration starts complete", func(t *testing.T) {
		e := newTestEngine(t)
		s := NewState(0, decimal.NewFromInt(1))
		require.True(t, errors.Is(e.Advance(s, s.Value), domain.ErrScenarioComplete))
	})

	t.Run("trigger suspends advancing", func(t *testing.T) {
		e := newTestEngine(t, lehman())
		s := NewState(10, decimal.NewFromInt(1_000_000))

		advanceN(t, e, s, 2)
		require.True(t, s.AwaitingDecision())
		require.Equal(t, "lehman", s.Pending.ID)

		err := e.Advance(s, s.Value)
		require.True(t, errors.Is(err, domain.ErrAwaitingDecision))
		require.Equal(t, 2, s.CurrentIndex)
		require.Len(t, s.History, 3)
	})

	t.Run("records values", func(t *testing.T) {
		e := newTestEngine(t)
		s := NewState(3, decimal.NewFromInt(100))
		require.NoError(t, e.Advance(s, decimal.NewFromInt(101)))
		require.NoError(t, e.Advance(s, decimal.NewFromInt(99)))

		require.Equal(t, "", cmp.Diff(
			[]domain.PricePoint{
				{Index: 0, Price: 100},
				{Index: 1, Price: 101},
				{Index: 2, Price: 99},
			},
			s.Values(),
		))
	})

	t.Run("templates at or past the duration never fire", func(t *testing.T) {
		late := lehman()
		late.TriggerIndex = 3
		e := newTestEngine(t, late)
		s := NewState(3, decimal.NewFromInt(100))

		advanceN(t, e, s, 3)
		require.True(t, s.Complete())
		require.Nil(t, s.Pending)
	})
}

func TestEngine_Choose(t *testing.T) {
	t.Run("full effect", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := mock_rng.NewMockSource(ctrl)
		src.EXPECT().Float64().Return(0.1)

		e := newTestEngine(t, lehman())
		s := NewState(10, decimal.NewFromInt(1_000_000))
		advanceN(t, e, s, 2)

		outcome, err := e.Choose(s, 1, src)
		require.NoError(t, err)
		require.Equal(t, 1.0, outcome.RiskFactor)
		require.True(t, outcome.FullEffect())
		require.Equal(t, "1150000", s.Value.String())
		require.True(t, outcome.ValueAfter.Equal(decimal.NewFromInt(1_150_000)))
		require.Equal(t, PhaseRunning, s.Phase)
		require.True(t, s.Consumed["lehman"])
	})

	t.Run("partial effect", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := mock_rng.NewMockSource(ctrl)
		src.EXPECT().Float64().Return(0.9)

		e := newTestEngine(t, lehman())
		s := NewState(10, decimal.NewFromInt(1_000_000))
		advanceN(t, e, s, 2)

		outcome, err := e.Choose(s, 1, src)
		require.NoError(t, err)
		require.Equal(t, 0.5, outcome.RiskFactor)
		require.Equal(t, "1075000", s.Value.String())
	})

	t.Run("unknown option leaves state alone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := mock_rng.NewMockSource(ctrl)

		e := newTestEngine(t, lehman())
		s := NewState(10, decimal.NewFromInt(1_000_000))
		advanceN(t, e, s, 2)

		for _, i := range []int{-1, 2, 7} {
			_, err := e.Choose(s, i, src)
			require.True(t, errors.Is(err, domain.ErrUnknownDecisionOption))
		}
		require.True(t, s.AwaitingDecision())
		require.Equal(t, "1000000", s.Value.String())
		require.Empty(t, s.Consumed)
		require.Empty(t, s.Outcomes)
	})

	t.Run("nothing pending", func(t *testing.T) {
		e := newTestEngine(t, lehman())
		s := NewState(10, decimal.NewFromInt(1))
		_, err := e.Choose(s, 0, rng.NewSeeded(1))
		require.True(t, errors.Is(err, domain.ErrNoPendingDecision))
	})

	t.Run("consumed templates are not offered again", func(t *testing.T) {
		e := newTestEngine(t, lehman())
		s := NewState(10, decimal.NewFromInt(1))
		advanceN(t, e, s, 2)
		_, err := e.Choose(s, 0, rng.NewSeeded(1))
		require.NoError(t, err)

		// rewind the index by hand, the template still shouldn't fire
		s.CurrentIndex = 1
		require.NoError(t, e.Advance(s, s.Value))
		require.Equal(t, PhaseRunning, s.Phase)
	})

	t.Run("two templates at one index are offered in turn", func(t *testing.T) {
		second := lehman()
		second.ID = "bailout"
		e := newTestEngine(t, lehman(), second)
		s := NewState(10, decimal.NewFromInt(1))
		advanceN(t, e, s, 2)

		require.Equal(t, "lehman", s.Pending.ID)
		_, err := e.Choose(s, 0, rng.NewSeeded(1))
		require.NoError(t, err)
		require.True(t, s.AwaitingDecision())
		require.Equal(t, "bailout", s.Pending.ID)
		_, err = e.Choose(s, 0, rng.NewSeeded(1))
		require.NoError(t, err)
		require.Equal(t, PhaseRunning, s.Phase)
	})

	t.Run("resolve leaves value alone", func(t *testing.T) {
		e := newTestEngine(t, lehman())
		s := NewState(10, decimal.NewFromInt(500))
		advanceN(t, e, s, 2)

		outcome, err := e.Resolve(s, 1, rng.NewSeeded(3))
		require.NoError(t, err)
		require.Equal(t, "500", s.Value.String())
		require.Equal(t, "Buy bank stocks", outcome.Option.Text)
		require.Len(t, s.History, 3)
	})
}

func TestEngine_conditions(t *testing.T) {
	marketing := domain.DecisionTemplate{
		ID:           "marketing",
		TriggerIndex: 1,
		Narrative:    "How should we acquire customers?",
		Condition:    `stage in ["mvp", "growth"]`,
		Options:      []domain.DecisionOption{{Text: "ads", ProbabilityOfFullEffect: 1}},
	}

	t.Run("skipped when false", func(t *testing.T) {
		e := newTestEngine(t, marketing)
		s := NewState(5, decimal.NewFromInt(1))
		s.Vars["stage"] = "idea"
		require.NoError(t, e.Advance(s, s.Value))
		require.Equal(t, PhaseRunning, s.Phase)
	})

	t.Run("offered when true", func(t *testing.T) {
		e := newTestEngine(t, marketing)
		s := NewState(5, decimal.NewFromInt(1))
		s.Vars["stage"] = "mvp"
		require.NoError(t, e.Advance(s, s.Value))
		require.True(t, s.AwaitingDecision())
	})

	t.Run("index and value are visible", func(t *testing.T) {
		tpl := marketing
		tpl.Condition = "index == 1 && value > 10"
		e := newTestEngine(t, tpl)

		s := NewState(5, decimal.NewFromInt(1))
		require.NoError(t, e.Advance(s, decimal.NewFromInt(20)))
		require.True(t, s.AwaitingDecision())
	})

	t.Run("broken condition fails without moving", func(t *testing.T) {
		tpl := marketing
		tpl.Condition = "1 + 1"
		e := newTestEngine(t, tpl)

		s := NewState(5, decimal.NewFromInt(1))
		require.Error(t, e.Advance(s, s.Value))
		require.Equal(t, 0, s.CurrentIndex)
		require.Len(t, s.History, 1)
	})
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine([]domain.DecisionTemplate{lehman(), lehman()}, DefaultConfig())
	require.Error(t, err)

	empty := lehman()
	empty.Options = nil
	_, err = NewEngine([]domain.DecisionTemplate{empty}, DefaultConfig())
	require.Error(t, err)

	_, err = NewEngine(nil, Config{PartialEffect: 2})
	require.Error(t, err)
}

func TestDrawRiskFactor(t *testing.T) {
	require.Equal(t, 1.0, DrawRiskFactor(rng.NewSeeded(1), 1, 0.5))
	require.Equal(t, 0.5, DrawRiskFactor(rng.NewSeeded(1), 0, 0.5))
}
