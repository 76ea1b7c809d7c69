package calculator

import (
	"math"
	"testing"

	"investlab/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestCalculatePathMetrics(t *testing.T) {
	t.Run("up then down", func(t *testing.T) {
		points := []domain.PricePoint{
			{Index: 0, Price: 100},
			{Index: 1, Price: 110},
			{Index: 2, Price: 99},
			{Index: 3, Price: 105},
		}

		metrics, err := CalculatePathMetrics(points)
		require.NoError(t, err)

		require.InDelta(t, 0.05, metrics.TotalReturn, 1e-9)
		require.InDelta(t, 0.1, metrics.MaxDrawdown, 1e-9)
		require.Equal(t, 99.0, metrics.Min)
		require.Equal(t, 110.0, metrics.Max)
		require.InDelta(t, metrics.StepStdev*math.Sqrt(252), metrics.AnnualizedStdev, 1e-9)
		require.Greater(t, metrics.StepStdev, 0.0)
	})

	t.Run("flat series", func(t *testing.T) {
		metrics, err := CalculatePathMetrics([]domain.PricePoint{
			{Index: 0, Price: 50},
			{Index: 1, Price: 50},
			{Index: 2, Price: 50},
		})
		require.NoError(t, err)
		require.Equal(t, 0.0, metrics.StepStdev)
		require.Equal(t, 0.0, metrics.MaxDrawdown)
		require.Equal(t, 0.0, metrics.TotalReturn)
	})

	t.Run("single step", func(t *testing.T) {
		metrics, err := CalculatePathMetrics([]domain.PricePoint{
			{Index: 0, Price: 100},
			{Index: 1, Price: 120},
		})
		require.NoError(t, err)
		require.Equal(t, 0.0, metrics.StepStdev)
		require.InDelta(t, 0.2, metrics.TotalReturn, 1e-9)
	})

	t.Run("too few points", func(t *testing.T) {
		_, err := CalculatePathMetrics([]domain.PricePoint{{Index: 0, Price: 100}})
		require.Error(t, err)
	})
}
