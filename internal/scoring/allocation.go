package scoring

import (
	"fmt"

	"investlab/internal/domain"

	"github.com/shopspring/decimal"
)

type Holding struct {
	Asset        domain.Asset    `json:"asset"`
	Percentage   float64         `json:"percentage"`
	DollarAmount decimal.Decimal `json:"dollarAmount"`
}

// Allocation is built up by the player then scored. percentages
// never sum past 100
type Allocation struct {
	Budget   decimal.Decimal `json:"budget"`
	Holdings []Holding       `json:"holdings"`
}

func NewAllocation(budget decimal.Decimal) *Allocation {
	return &Allocation{
		Budget:   budget,
		Holdings: []Holding{},
	}
}

func (a Allocation) TotalPercentage() float64 {
	total := 0.0
	for _, h := range a.Holdings {
		total += h.Percentage
	}
	return total
}

func (a Allocation) Remaining() decimal.Decimal {
	remaining := a.Budget
	for _, h := range a.Holdings {
		remaining = remaining.Sub(h.DollarAmount)
	}
	return remaining
}

func (a Allocation) dollarAmount(percentage float64) decimal.Decimal {
	return a.Budget.Mul(decimal.NewFromFloat(percentage)).Div(decimal.NewFromInt(100))
}

// Add puts percentage of the budget into asset. adding an asset that's
// already held tops up the existing holding
func (a *Allocation) Add(asset domain.Asset, percentage float64) error {
	if percentage < 0 {
		return fmt.Errorf("%w: percentage must be >= 0, got %f", domain.ErrInvalidAllocation, percentage)
	}
	// small tolerance so 33.3 + 33.3 + 33.4 isn't rejected
	if total := a.TotalPercentage() + percentage; total > 100+1e-9 {
		return fmt.Errorf("%w: total allocation would be %.2f%%", domain.ErrInvalidAllocation, total)
	}

	amount := a.dollarAmount(percentage)
	for i, h := range a.Holdings {
		if h.Asset.ID == asset.ID {
			a.Holdings[i].Percentage += percentage
			a.Holdings[i].DollarAmount = h.DollarAmount.Add(amount)
			return nil
		}
	}

	a.Holdings = append(a.Holdings, Holding{
		Asset:        asset,
		Percentage:   percentage,
		DollarAmount: amount,
	})
	return nil
}

func (a *Allocation) Remove(assetID string) error {
	for i, h := range a.Holdings {
		if h.Asset.ID == assetID {
			a.Holdings = append(a.Holdings[:i], a.Holdings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not held", domain.ErrUnknownAsset, assetID)
}

func (a *Allocation) Reset() {
	a.Holdings = []Holding{}
}

func (a Allocation) validate() error {
	if len(a.Holdings) == 0 {
		return domain.ErrEmptyScoringInput
	}
	for _, h := range a.Holdings {
		if h.Percentage < 0 {
			return fmt.Errorf("%w: %s has negative percentage", domain.ErrInvalidAllocation, h.Asset.Symbol)
		}
	}
	total := a.TotalPercentage()
	if total <= 0 {
		return domain.ErrEmptyScoringInput
	}
	if total > 100+1e-9 {
		return fmt.Errorf("%w: total allocation is %.2f%%", domain.ErrInvalidAllocation, total)
	}
	return nil
}
