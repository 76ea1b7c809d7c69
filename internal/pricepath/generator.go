package pricepath

import (
	"fmt"

	"investlab/internal/domain"
	"investlab/internal/rng"
)

// Generator walks a price series one step at a time. it owns its
// position in the series and nothing else
type Generator struct {
	params       RegimeParams
	floor        float64
	tick         float64
	src          rng.Source
	initialPrice float64

	index int
	price float64
}

func NewGenerator(cfg Config, initialPrice float64, regime Regime, src rng.Source) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	params, err := cfg.Lookup(regime)
	if err != nil {
		return nil, err
	}
	if initialPrice <= cfg.Floor {
		return nil, fmt.Errorf("%w: initial price %f must be above floor %f", domain.ErrInvalidParameter, initialPrice, cfg.Floor)
	}
	if src == nil {
		src = rng.New()
	}

	return &Generator{
		params:       params,
		floor:        cfg.Floor,
		tick:         cfg.Tick,
		src:          src,
		initialPrice: initialPrice,
		price:        initialPrice,
	}, nil
}

// Current is the latest point without advancing
func (g *Generator) Current() domain.PricePoint {
	return domain.PricePoint{Index: g.index, Price: g.price}
}

func (g *Generator) Next() domain.PricePoint {
	noise := rng.Uniform(g.src, g.params.NoiseAmplitude)
	next := g.price * (1 + g.params.DriftMean + noise)
	if next <= g.floor {
		next = g.floor + g.tick
	}

	g.index++
	g.price = next

	return g.Current()
}

// Restart goes back to the initial price. with a resettable source
// the replay is identical to the first run
func (g *Generator) Restart() {
	if r, ok := g.src.(rng.Resetter); ok {
		r.Reset()
	}
	g.index = 0
	g.price = g.initialPrice
}

// Rewind puts the generator back at p, a point it produced earlier.
// draws already taken from the source stay taken
func (g *Generator) Rewind(p domain.PricePoint) {
	g.index = p.Index
	g.price = p.Price
}

// Generate returns steps+1 points, the first being initialPrice
func Generate(cfg Config, initialPrice float64, regime Regime, steps int, src rng.Source) ([]domain.PricePoint, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps must be >= 0, got %d", domain.ErrInvalidParameter, steps)
	}
	g, err := NewGenerator(cfg, initialPrice, regime, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	points := make([]domain.PricePoint, 0, steps+1)
	points = append(points, g.Current())
	for i := 0; i < steps; i++ {
		points = append(points, g.Next())
	}

	return points, nil
}
