package scoring

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Weights are the constants behind the portfolio game's scores.
// none of them come from a risk model, they're tuned for the game
type Weights struct {
	PerSector        float64 `json:"perSector"`
	PerType          float64 `json:"perType"`
	PerHolding       float64 `json:"perHolding"`
	RiskPenalty      float64 `json:"riskPenalty"`
	ReturnMultiplier float64 `json:"returnMultiplier"`
}

func DefaultWeights() Weights {
	return Weights{
		PerSector:        15,
		PerType:          10,
		PerHolding:       5,
		RiskPenalty:      8,
		ReturnMultiplier: 6,
	}
}

type Score struct {
	Diversification float64 `json:"diversification"`
	Risk            float64 `json:"riskManagement"`
	Return          float64 `json:"expectedReturn"`
	Composite       int     `json:"overall"`

	WeightedRisk   float64 `json:"weightedRisk"`
	WeightedReturn float64 `json:"weightedReturn"`
}

// ScoreAllocation returns ErrEmptyScoringInput instead of a
// number when nothing is allocated
func ScoreAllocation(a Allocation, w Weights) (*Score, error) {
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("cannot score allocation: %w", err)
	}

	sectors := map[string]struct{}{}
	types := map[string]struct{}{}
	weightedRisk := 0.0
	weightedReturn := 0.0
	for _, h := range a.Holdings {
		sectors[h.Asset.Sector] = struct{}{}
		types[string(h.Asset.Type)] = struct{}{}
		weightedRisk += h.Asset.Risk * h.Percentage
		weightedReturn += h.Asset.ExpectedReturn * h.Percentage
	}
	weightedRisk /= 100
	weightedReturn /= 100

	diversification := clamp(
		w.PerSector*float64(len(sectors)) +
			w.PerType*float64(len(types)) +
			w.PerHolding*float64(len(a.Holdings)),
	)
	risk := clamp(100 - w.RiskPenalty*weightedRisk)
	ret := clamp(w.ReturnMultiplier * weightedReturn)

	mean, err := stats.Mean([]float64{diversification, risk, ret})
	if err != nil {
		return nil, err
	}

	return &Score{
		Diversification: diversification,
		Risk:            risk,
		Return:          ret,
		Composite:       int(math.Round(mean)),
		WeightedRisk:    weightedRisk,
		WeightedReturn:  weightedReturn,
	}, nil
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}
