package calculator

import (
	"fmt"
	"math"
	"sort"

	"investlab/internal/domain"

	"github.com/montanaflynn/stats"
)

// steps per "year" when annualizing. the games treat a step as a
// trading day
const stepsPerYear = 252

type PathMetrics struct {
	StepStdev       float64 `json:"stepStdev"`
	AnnualizedStdev float64 `json:"annualizedStdev"`
	TotalReturn     float64 `json:"totalReturn"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
}

// CalculatePathMetrics summarizes a generated series. returns and
// drawdown are fractions, not percents
func CalculatePathMetrics(points []domain.PricePoint) (*PathMetrics, error) {
	returns, err := calculateReturns(points)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate returns: %w", err)
	}

	stdev := 0.0
	// sample stdev needs two returns
	if len(returns) > 1 {
		stdev, err = stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, err
		}
	}

	prices := domain.PricesOf(points)
	min, err := stats.Min(prices)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(prices)
	if err != nil {
		return nil, err
	}

	start := points[0].Price
	end := points[len(points)-1].Price

	return &PathMetrics{
		StepStdev:       stdev,
		AnnualizedStdev: stdev * math.Sqrt(stepsPerYear),
		TotalReturn:     (end - start) / start,
		MaxDrawdown:     maxDrawdown(prices),
		Min:             min,
		Max:             max,
	}, nil
}

func calculateReturns(points []domain.PricePoint) ([]float64, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("cannot calculate metrics on < 2 price points")
	}
	sorted := make([]domain.PricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	returns := make([]float64, 0, len(sorted)-1)
	lastValue := sorted[0].Price
	for _, p := range sorted[1:] {
		if lastValue <= 0 {
			return nil, fmt.Errorf("non-positive price %f at index %d", lastValue, p.Index-1)
		}
		returns = append(returns, (p.Price-lastValue)/lastValue)
		lastValue = p.Price
	}

	return returns, nil
}

func maxDrawdown(prices []float64) float64 {
	peak := prices[0]
	worst := 0.0
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		dd := (peak - p) / peak
		if dd > worst {
			worst = dd
		}
	}
	return worst
}
