package options

import (
	"errors"
	"testing"

	"investlab/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testChain() []domain.OptionContract {
	return []domain.OptionContract{
		{ID: "1", Type: domain.OptionTypeCall, Strike: 170, Premium: 8.5, ExpirationLabel: "30 days", UnderlyingSymbol: "AAPL", ReferencePrice: 175},
		{ID: "2", Type: domain.OptionTypeCall, Strike: 175, Premium: 5.25, ExpirationLabel: "30 days", UnderlyingSymbol: "AAPL", ReferencePrice: 175},
		{ID: "4", Type: domain.OptionTypePut, Strike: 170, Premium: 3.25, ExpirationLabel: "30 days", UnderlyingSymbol: "AAPL", ReferencePrice: 175},
		{ID: "6", Type: domain.OptionTypePut, Strike: 180, Premium: 9.5, ExpirationLabel: "30 days", UnderlyingSymbol: "AAPL", ReferencePrice: 175},
	}
}

func newTestBook(cash int64) *Book {
	return NewBook(NewBookInput{
		Chain:           testChain(),
		UnderlyingPrice: 175,
		StartingCash:    decimal.NewFromInt(cash),
	})
}

func TestQuoteContract(t *testing.T) {
	chain := testChain()

	t.Run("in the money call", func(t *testing.T) {
		q := QuoteContract(chain[0], 175, DefaultRetentionFactor)
		require.Equal(t, 5.0, q.IntrinsicValue)
		require.InDelta(t, 5+3.5*0.8, q.ApproximateCurrentValue, 1e-9)
	})

	t.Run("out of the money put", func(t *testing.T) {
		q := QuoteContract(chain[2], 175, DefaultRetentionFactor)
		require.Equal(t, 0.0, q.IntrinsicValue)
		require.InDelta(t, 3.25*0.8, q.ApproximateCurrentValue, 1e-9)
	})

	t.Run("underlying moved", func(t *testing.T) {
		q := QuoteContract(chain[3], 160, DefaultRetentionFactor)
		require.Equal(t, 20.0, q.IntrinsicValue)
		// time value is fixed at open: 9.5 - 5
		require.InDelta(t, 20+4.5*0.8, q.ApproximateCurrentValue, 1e-9)
	})
}

func TestBook_OpenPosition(t *testing.T) {
	t.Run("insufficient funds leaves cash alone", func(t *testing.T) {
		book := newTestBook(1000)

		_, err := book.OpenPosition("1", 2, domain.PositionSideBuy)
		require.True(t, errors.Is(err, domain.ErrInsufficientFunds))
		require.True(t, book.Cash.Equal(decimal.NewFromInt(1000)))
		require.Empty(t, book.Positions())
	})

	t.Run("invalid quantity", func(t *testing.T) {
		book := newTestBook(10000)

		_, err := book.OpenPosition("1", 0, domain.PositionSideBuy)
		require.True(t, errors.Is(err, domain.ErrInvalidQuantity))
		_, err = book.OpenPosition("1", -3, domain.PositionSideSell)
		require.True(t, errors.Is(err, domain.ErrInvalidQuantity))
		require.True(t, book.Cash.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("unknown contract", func(t *testing.T) {
		book := newTestBook(10000)
		_, err := book.OpenPosition("99", 1, domain.PositionSideBuy)
		require.True(t, errors.Is(err, domain.ErrUnknownContract))
	})

	t.Run("buy debits and sell credits", func(t *testing.T) {
		book := newTestBook(10000)

		_, err := book.OpenPosition("1", 1, domain.PositionSideBuy)
		require.NoError(t, err)
		require.Equal(t, "9150", book.Cash.String())

		_, err = book.OpenPosition("2", 2, domain.PositionSideSell)
		require.NoError(t, err)
		require.Equal(t, "10200", book.Cash.String())

		positions := book.Positions()
		require.Len(t, positions, 2)
		require.Equal(t, "1", positions[0].Contract.ID)
		require.Equal(t, "2", positions[1].Contract.ID)
	})

	t.Run("selling ignores cash", func(t *testing.T) {
		book := newTestBook(0)
		_, err := book.OpenPosition("6", 5, domain.PositionSideSell)
		require.NoError(t, err)
	})
}

func TestBook_ClosePosition(t *testing.T) {
	t.Run("immediate close of a long never gains", func(t *testing.T) {
		for _, c := range testChain() {
			book := newTestBook(100000)
			id, err := book.OpenPosition(c.ID, 3, domain.PositionSideBuy)
			require.NoError(t, err)

			pnl, err := book.ClosePosition(id)
			require.NoError(t, err)
			require.True(t, pnl.LessThanOrEqual(decimal.Zero), "contract %s pnl %s", c.ID, pnl)
			require.True(t, book.Cash.Equal(decimal.NewFromInt(100000).Add(pnl)))
		}
	})

	t.Run("immediate close of a short keeps the decay", func(t *testing.T) {
		for _, c := range testChain() {
			book := newTestBook(100000)
			id, err := book.OpenPosition(c.ID, 3, domain.PositionSideSell)
			require.NoError(t, err)

			pnl, err := book.ClosePosition(id)
			require.NoError(t, err)
			require.True(t, pnl.GreaterThanOrEqual(decimal.Zero), "contract %s pnl %s", c.ID, pnl)
			require.True(t, book.Cash.Equal(decimal.NewFromInt(100000).Add(pnl)))
		}
	})

	t.Run("written call buys back cheaper", func(t *testing.T) {
		book := newTestBook(10000)
		id, err := book.OpenPosition("1", 2, domain.PositionSideSell)
		require.NoError(t, err)
		require.InDelta(t, 11700.0, book.Cash.InexactFloat64(), 1e-6)

		pnl, err := book.ClosePosition(id)
		require.NoError(t, err)
		// -(5 + 3.5*0.8 - 8.5) * 200
		require.InDelta(t, 140.0, pnl.InexactFloat64(), 1e-6)
		require.InDelta(t, 10140.0, book.Cash.InexactFloat64(), 1e-6)
	})

	t.Run("decay on the call", func(t *testing.T) {
		book := newTestBook(10000)
		id, err := book.OpenPosition("1", 2, domain.PositionSideBuy)
		require.NoError(t, err)

		pnl, err := book.ClosePosition(id)
		require.NoError(t, err)
		// (5 + 3.5*0.8 - 8.5) * 200
		require.InDelta(t, -140.0, pnl.InexactFloat64(), 1e-6)
		require.InDelta(t, 9860.0, book.Cash.InexactFloat64(), 1e-6)
		require.True(t, book.RealizedPnL().Equal(pnl))
	})

	t.Run("written put after a rally", func(t *testing.T) {
		book := newTestBook(10000)
		id, err := book.OpenPosition("4", 1, domain.PositionSideSell)
		require.NoError(t, err)

		book.SetUnderlyingPrice(190)
		pnl, err := book.ClosePosition(id)
		require.NoError(t, err)
		// buy back at 3.25*0.8 = 2.6, kept 0.65 per share
		require.InDelta(t, 65.0, pnl.InexactFloat64(), 1e-6)
		require.InDelta(t, 10065.0, book.Cash.InexactFloat64(), 1e-6)
	})

	t.Run("unknown position", func(t *testing.T) {
		book := newTestBook(10000)
		_, err := book.ClosePosition(uuid.New())
		require.True(t, errors.Is(err, domain.ErrUnknownPosition))
		require.True(t, book.Cash.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("closing twice", func(t *testing.T) {
		book := newTestBook(10000)
		id, err := book.OpenPosition("2", 1, domain.PositionSideBuy)
		require.NoError(t, err)
		_, err = book.ClosePosition(id)
		require.NoError(t, err)
		_, err = book.ClosePosition(id)
		require.True(t, errors.Is(err, domain.ErrUnknownPosition))
	})
}

func TestBook_TotalPnL(t *testing.T) {
	book := newTestBook(10000)
	_, err := book.OpenPosition("1", 1, domain.PositionSideBuy)
	require.NoError(t, err)
	id, err := book.OpenPosition("4", 1, domain.PositionSideBuy)
	require.NoError(t, err)
	_, err = book.ClosePosition(id)
	require.NoError(t, err)

	total := book.TotalPnL()
	require.True(t, total.Equal(book.RealizedPnL().Add(book.UnrealizedPnL())))

	book.Reset()
	require.True(t, book.Cash.Equal(decimal.NewFromInt(10000)))
	require.Empty(t, book.Positions())
	require.True(t, book.TotalPnL().IsZero())
}

func TestPayoffCurve(t *testing.T) {
	chain := testChain()
	positions := []domain.OptionPosition{
		{ID: uuid.New(), Contract: chain[1], Quantity: 1, Side: domain.PositionSideBuy},
		{ID: uuid.New(), Contract: chain[2], Quantity: 2, Side: domain.PositionSideSell},
	}

	t.Run("pure", func(t *testing.T) {
		before := make([]domain.OptionPosition, len(positions))
		copy(before, positions)

		a, err := PayoffCurve(positions, DefaultPriceRange(175))
		require.NoError(t, err)
		b, err := PayoffCurve(positions, DefaultPriceRange(175))
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(a, b))
		require.Equal(t, "", cmp.Diff(before, positions))
		require.Len(t, a, 51)
		require.InDelta(t, 175*0.7, a[0].Price, 1e-9)
		require.InDelta(t, 175*1.3, a[50].Price, 1e-9)
	})

	t.Run("single long call", func(t *testing.T) {
		curve, err := PayoffCurve(positions[:1], PriceRange{Low: 170, High: 190, Samples: 4})
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(
			[]PayoffPoint{
				{Price: 170, Profit: -525},
				{Price: 175, Profit: -525},
				{Price: 180, Profit: -25},
				{Price: 185, Profit: 475},
				{Price: 190, Profit: 975},
			},
			curve,
		))

		breakevens := Breakevens(curve)
		require.Len(t, breakevens, 1)
		require.InDelta(t, 180.25, breakevens[0], 1e-9)
	})

	t.Run("empty positions are flat", func(t *testing.T) {
		curve, err := PayoffCurve(nil, DefaultPriceRange(100))
		require.NoError(t, err)
		for _, p := range curve {
			require.Equal(t, 0.0, p.Profit)
		}
	})

	t.Run("bad range", func(t *testing.T) {
		_, err := PayoffCurve(positions, PriceRange{Low: 10, High: 5, Samples: 10})
		require.Error(t, err)
		_, err = PayoffCurve(positions, PriceRange{Low: 10, High: 20})
		require.Error(t, err)
	})
}

func TestExperiencePoints(t *testing.T) {
	require.Equal(t, 100, ExperiencePoints(decimal.Zero))
	require.Equal(t, 150, ExperiencePoints(decimal.NewFromInt(500)))
	require.Equal(t, 0, ExperiencePoints(decimal.NewFromInt(-5000)))
}
