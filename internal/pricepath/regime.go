package pricepath

import (
	"fmt"
	"sort"

	"investlab/internal/domain"
)

type Regime string

const (
	RegimeUptrend       Regime = "uptrend"
	RegimeDowntrend     Regime = "downtrend"
	RegimeSideways      Regime = "sideways"
	RegimeVolatile      Regime = "volatile"
	RegimeCrisisExtreme Regime = "crisis-extreme"
	RegimeCrisisSevere  Regime = "crisis-severe"
	RegimeCrisisMild    Regime = "crisis-mild"
)

// RegimeParams are per-step fractions, so 0.005 is half a percent
type RegimeParams struct {
	DriftMean      float64 `json:"driftMean"`
	NoiseAmplitude float64 `json:"noiseAmplitude"`
}

func DefaultRegimes() map[Regime]RegimeParams {
	return map[Regime]RegimeParams{
		RegimeUptrend:       {DriftMean: 0.005, NoiseAmplitude: 0.01},
		RegimeDowntrend:     {DriftMean: -0.005, NoiseAmplitude: 0.01},
		RegimeSideways:      {DriftMean: 0, NoiseAmplitude: 0.005},
		RegimeVolatile:      {DriftMean: 0, NoiseAmplitude: 0.03},
		RegimeCrisisExtreme: {DriftMean: -0.008, NoiseAmplitude: 0.02},
		RegimeCrisisSevere:  {DriftMean: -0.003, NoiseAmplitude: 0.015},
		RegimeCrisisMild:    {DriftMean: 0, NoiseAmplitude: 0.01},
	}
}

// CrisisRegime maps a crisis severity label onto its regime
func CrisisRegime(severity string) Regime {
	return Regime("crisis-" + severity)
}

const (
	DefaultFloor = 0.01
	DefaultTick  = 0.01
)

type Config struct {
	Regimes map[Regime]RegimeParams
	// prices never go at or below Floor. a step that would is
	// clamped to Floor + Tick
	Floor float64
	Tick  float64
}

func DefaultConfig() Config {
	return Config{
		Regimes: DefaultRegimes(),
		Floor:   DefaultFloor,
		Tick:    DefaultTick,
	}
}

func (c Config) Lookup(regime Regime) (RegimeParams, error) {
	params, ok := c.Regimes[regime]
	if !ok {
		return RegimeParams{}, fmt.Errorf("%w: %s", domain.ErrUnknownRegime, regime)
	}
	return params, nil
}

func (c Config) RegimeNames() []Regime {
	out := make([]Regime, 0, len(c.Regimes))
	for r := range c.Regimes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}

func (c Config) validate() error {
	if c.Floor <= 0 {
		return fmt.Errorf("price floor must be > 0, got %f", c.Floor)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("floor tick must be > 0, got %f", c.Tick)
	}
	return nil
}
