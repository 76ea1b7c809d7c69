package options

import (
	"fmt"
	"math"

	"investlab/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book tracks one player's option positions against a fixed chain.
// a book belongs to a single game and isn't safe for concurrent use
type Book struct {
	chain           map[string]domain.OptionContract
	underlyingPrice float64
	retention       float64
	startingCash    decimal.Decimal

	Cash      decimal.Decimal
	positions map[uuid.UUID]domain.OptionPosition
	// open order, so listings are stable
	order    []uuid.UUID
	realized decimal.Decimal
}

type NewBookInput struct {
	Chain           []domain.OptionContract
	UnderlyingPrice float64
	StartingCash    decimal.Decimal
	// zero means DefaultRetentionFactor
	RetentionFactor float64
}

func NewBook(in NewBookInput) *Book {
	chain := map[string]domain.OptionContract{}
	for _, c := range in.Chain {
		chain[c.ID] = c
	}
	retention := in.RetentionFactor
	if retention == 0 {
		retention = DefaultRetentionFactor
	}

	return &Book{
		chain:           chain,
		underlyingPrice: in.UnderlyingPrice,
		retention:       retention,
		startingCash:    in.StartingCash,
		Cash:            in.StartingCash,
		positions:       map[uuid.UUID]domain.OptionPosition{},
		order:           []uuid.UUID{},
		realized:        decimal.Zero,
	}
}

func (b *Book) UnderlyingPrice() float64 {
	return b.underlyingPrice
}

func (b *Book) SetUnderlyingPrice(price float64) {
	b.underlyingPrice = price
}

func (b *Book) Contract(id string) (domain.OptionContract, error) {
	c, ok := b.chain[id]
	if !ok {
		return domain.OptionContract{}, fmt.Errorf("%w: %s", domain.ErrUnknownContract, id)
	}
	return c, nil
}

func (b *Book) Quote(contract domain.OptionContract) Quote {
	return QuoteContract(contract, b.underlyingPrice, b.retention)
}

func (b *Book) OpenPosition(contractID string, quantity int, side domain.PositionSide) (uuid.UUID, error) {
	if quantity <= 0 {
		return uuid.Nil, fmt.Errorf("%w: quantity must be > 0, got %d", domain.ErrInvalidQuantity, quantity)
	}
	if !side.Valid() {
		return uuid.Nil, fmt.Errorf("invalid side %q", side)
	}
	contract, err := b.Contract(contractID)
	if err != nil {
		return uuid.Nil, err
	}

	position := domain.OptionPosition{
		ID:       uuid.New(),
		Contract: contract,
		Quantity: quantity,
		Side:     side,
	}
	cost := position.CostBasis()
	if side == domain.PositionSideBuy && cost.GreaterThan(b.Cash) {
		return uuid.Nil, fmt.Errorf(
			"%w: cost %s exceeds cash %s",
			domain.ErrInsufficientFunds,
			cost.StringFixed(2),
			b.Cash.StringFixed(2),
		)
	}

	b.Cash = b.Cash.Sub(cost)
	b.positions[position.ID] = position
	b.order = append(b.order, position.ID)

	return position.ID, nil
}

// ClosePosition realizes the position at its approximate current value
// and returns the realized P&L
func (b *Book) ClosePosition(id uuid.UUID) (decimal.Decimal, error) {
	position, ok := b.positions[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownPosition, id)
	}

	pnl := b.PositionPnL(position)
	b.Cash = b.Cash.Add(position.CostBasis()).Add(pnl)
	b.realized = b.realized.Add(pnl)

	delete(b.positions, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	return pnl, nil
}

// PositionPnL is what closing p right now would realize
func (b *Book) PositionPnL(p domain.OptionPosition) decimal.Decimal {
	current := b.Quote(p.Contract).ApproximateCurrentValue
	perShare := decimal.NewFromFloat(current).Sub(decimal.NewFromFloat(p.Contract.Premium))
	return perShare.
		Mul(decimal.NewFromInt(int64(p.Quantity * domain.ContractMultiplier))).
		Mul(decimal.NewFromFloat(p.Side.Sign()))
}

// Positions returns open positions in the order they were opened
func (b *Book) Positions() []domain.OptionPosition {
	out := make([]domain.OptionPosition, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.positions[id])
	}
	return out
}

func (b *Book) UnrealizedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, id := range b.order {
		total = total.Add(b.PositionPnL(b.positions[id]))
	}
	return total
}

func (b *Book) RealizedPnL() decimal.Decimal {
	return b.realized
}

// TotalPnL is cash plus the value of open positions, relative to where
// the book started
func (b *Book) TotalPnL() decimal.Decimal {
	equity := b.Cash
	for _, id := range b.order {
		p := b.positions[id]
		equity = equity.Add(p.CostBasis()).Add(b.PositionPnL(p))
	}
	return equity.Sub(b.startingCash)
}

func (b *Book) PayoffCurve(r PriceRange) ([]PayoffPoint, error) {
	return PayoffCurve(b.Positions(), r)
}

func (b *Book) Reset() {
	b.Cash = b.startingCash
	b.positions = map[uuid.UUID]domain.OptionPosition{}
	b.order = []uuid.UUID{}
	b.realized = decimal.Zero
}

// ExperiencePoints converts a finished game's P&L into XP
func ExperiencePoints(totalPnL decimal.Decimal) int {
	return int(math.Max(0, math.Round(totalPnL.InexactFloat64()/10+100)))
}
