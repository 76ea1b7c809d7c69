package options

import (
	"fmt"

	"investlab/internal/domain"
)

type PayoffPoint struct {
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
}

type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
	// number of intervals, so Samples+1 prices are evaluated
	Samples int `json:"samples"`
}

const (
	defaultRangeLow     = 0.7
	defaultRangeHigh    = 1.3
	defaultRangeSamples = 50
)

func DefaultPriceRange(spot float64) PriceRange {
	return PriceRange{
		Low:     spot * defaultRangeLow,
		High:    spot * defaultRangeHigh,
		Samples: defaultRangeSamples,
	}
}

func (r PriceRange) validate() error {
	if r.Samples <= 0 {
		return fmt.Errorf("price range needs at least one sample, got %d", r.Samples)
	}
	if r.Low < 0 || r.High < r.Low {
		return fmt.Errorf("invalid price range [%f, %f]", r.Low, r.High)
	}
	return nil
}

// PayoffAt is the combined expiration profit of positions with the
// underlying at price
func PayoffAt(positions []domain.OptionPosition, price float64) float64 {
	total := 0.0
	for _, p := range positions {
		perShare := p.Contract.IntrinsicValue(price) - p.Contract.Premium
		total += perShare * float64(p.Quantity*domain.ContractMultiplier) * p.Side.Sign()
	}
	return total
}

// PayoffCurve samples PayoffAt over r. it reads positions and
// nothing else, so repeated calls give the same curve
func PayoffCurve(positions []domain.OptionPosition, r PriceRange) ([]PayoffPoint, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	step := (r.High - r.Low) / float64(r.Samples)
	curve := make([]PayoffPoint, 0, r.Samples+1)
	for i := 0; i <= r.Samples; i++ {
		price := r.Low + step*float64(i)
		curve = append(curve, PayoffPoint{
			Price:  price,
			Profit: PayoffAt(positions, price),
		})
	}

	return curve, nil
}

// Breakevens are the sampled prices where the curve changes sign
func Breakevens(curve []PayoffPoint) []float64 {
	out := []float64{}
	for i := 1; i < len(curve); i++ {
		a, b := curve[i-1], curve[i]
		if a.Profit == 0 {
			out = append(out, a.Price)
			continue
		}
		if (a.Profit < 0) != (b.Profit < 0) && b.Profit != 0 {
			// linear between samples
			x := a.Price + (b.Price-a.Price)*(-a.Profit)/(b.Profit-a.Profit)
			out = append(out, x)
		}
	}
	if n := len(curve); n > 0 && curve[n-1].Profit == 0 {
		out = append(out, curve[n-1].Price)
	}
	return out
}
