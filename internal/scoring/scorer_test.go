package scoring

import (
	"errors"
	"testing"

	"investlab/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	aapl = domain.Asset{ID: "1", Symbol: "AAPL", Sector: "Technology", Type: domain.AssetTypeStock, Risk: 6, ExpectedReturn: 12}
	msft = domain.Asset{ID: "2", Symbol: "MSFT", Sector: "Technology", Type: domain.AssetTypeStock, Risk: 5, ExpectedReturn: 11}
	bnd  = domain.Asset{ID: "4", Symbol: "BND", Sector: "Fixed Income", Type: domain.AssetTypeBond, Risk: 2, ExpectedReturn: 4}
	btc  = domain.Asset{ID: "6", Symbol: "BTC", Sector: "Cryptocurrency", Type: domain.AssetTypeCrypto, Risk: 10, ExpectedReturn: 15}
)

func TestScoreAllocation(t *testing.T) {
	t.Run("single low risk asset", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100000))
		require.NoError(t, a.Add(bnd, 100))

		score, err := ScoreAllocation(*a, DefaultWeights())
		require.NoError(t, err)

		require.Equal(t, 84.0, score.Risk)
		require.Equal(t, 24.0, score.Return)
		require.Equal(t, 30.0, score.Diversification)
		// (30 + 84 + 24) / 3 = 46
		require.Equal(t, 46, score.Composite)
	})

	t.Run("mixed portfolio", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100000))
		require.NoError(t, a.Add(aapl, 30))
		require.NoError(t, a.Add(msft, 20))
		require.NoError(t, a.Add(bnd, 40))
		require.NoError(t, a.Add(btc, 10))

		score, err := ScoreAllocation(*a, DefaultWeights())
		require.NoError(t, err)

		// 3 sectors, 3 types, 4 holdings
		require.Equal(t, 95.0, score.Diversification)
		require.InDelta(t, 4.6, score.WeightedRisk, 1e-9)
		require.InDelta(t, 100-8*4.6, score.Risk, 1e-9)
		require.InDelta(t, 8.9, score.WeightedReturn, 1e-9)
		require.InDelta(t, 53.4, score.Return, 1e-9)
		// (95 + 63.2 + 53.4) / 3 = 70.53
		require.Equal(t, 71, score.Composite)
	})

	t.Run("sub scores clamp", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(1000))
		require.NoError(t, a.Add(btc, 100))

		w := DefaultWeights()
		w.RiskPenalty = 20
		w.ReturnMultiplier = 10
		score, err := ScoreAllocation(*a, w)
		require.NoError(t, err)
		require.Equal(t, 0.0, score.Risk)
		require.Equal(t, 100.0, score.Return)
	})

	t.Run("empty is not scored", func(t *testing.T) {
		score, err := ScoreAllocation(*NewAllocation(decimal.NewFromInt(100)), DefaultWeights())
		require.Nil(t, score)
		require.True(t, errors.Is(err, domain.ErrEmptyScoringInput))
	})

	t.Run("zero percent only is not scored", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100))
		require.NoError(t, a.Add(aapl, 0))
		_, err := ScoreAllocation(*a, DefaultWeights())
		require.True(t, errors.Is(err, domain.ErrEmptyScoringInput))
	})

	t.Run("over allocated", func(t *testing.T) {
		a := Allocation{
			Budget: decimal.NewFromInt(100),
			Holdings: []Holding{
				{Asset: aapl, Percentage: 70},
				{Asset: bnd, Percentage: 40},
			},
		}
		_, err := ScoreAllocation(a, DefaultWeights())
		require.True(t, errors.Is(err, domain.ErrInvalidAllocation))
	})
}

func TestAllocation(t *testing.T) {
	t.Run("dollar amounts follow budget", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100000))
		require.NoError(t, a.Add(aapl, 25))
		require.Equal(t, "25000", a.Holdings[0].DollarAmount.String())
		require.Equal(t, "75000", a.Remaining().String())
	})

	t.Run("adding a held asset merges", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100000))
		require.NoError(t, a.Add(aapl, 10))
		require.NoError(t, a.Add(bnd, 10))
		require.NoError(t, a.Add(aapl, 15))

		require.Len(t, a.Holdings, 2)
		require.Equal(t, 25.0, a.Holdings[0].Percentage)
		require.Equal(t, "25000", a.Holdings[0].DollarAmount.String())
	})

	t.Run("rejects going past 100", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100000))
		require.NoError(t, a.Add(aapl, 60))
		err := a.Add(bnd, 50)
		require.True(t, errors.Is(err, domain.ErrInvalidAllocation))
		require.Len(t, a.Holdings, 1)
		require.Equal(t, 60.0, a.TotalPercentage())
	})

	t.Run("rejects negative", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100000))
		err := a.Add(aapl, -5)
		require.True(t, errors.Is(err, domain.ErrInvalidAllocation))
		require.Empty(t, a.Holdings)
	})

	t.Run("remove", func(t *testing.T) {
		a := NewAllocation(decimal.NewFromInt(100000))
		require.NoError(t, a.Add(aapl, 60))
		require.NoError(t, a.Add(bnd, 40))
		require.NoError(t, a.Remove("1"))
		require.Len(t, a.Holdings, 1)
		require.Equal(t, "BND", a.Holdings[0].Asset.Symbol)

		err := a.Remove("1")
		require.True(t, errors.Is(err, domain.ErrUnknownAsset))

		a.Reset()
		require.Empty(t, a.Holdings)
	})
}
