package startup

import (
	"math"

	"investlab/internal/domain"
)

const (
	StageIdea      = "idea"
	StagePrototype = "prototype"
	StageMvp       = "mvp"
	StageGrowth    = "growth"
	StageScale     = "scale"
	StageIpoReady  = "ipo-ready"
)

const (
	MetricValuation   = "valuation"
	MetricRevenue     = "revenue"
	MetricEmployees   = "employees"
	MetricFunding     = "funding"
	MetricBurnRate    = "burnRate"
	MetricMarketShare = "marketShare"
)

// order effects are applied in. funding goes first so the burn
// rate cap sees the new funding
var effectOrder = []string{
	MetricFunding,
	MetricRevenue,
	MetricValuation,
	MetricMarketShare,
	MetricEmployees,
	MetricBurnRate,
}

type stageRule struct {
	stage        string
	minValuation float64
	minRevenue   float64
}

// first match wins
var stageLadder = []stageRule{
	{stage: StageIpoReady, minValuation: 100_000_000, minRevenue: 10_000_000},
	{stage: StageScale, minValuation: 50_000_000, minRevenue: 5_000_000},
	{stage: StageGrowth, minValuation: 10_000_000, minRevenue: 1_000_000},
	{stage: StageMvp, minRevenue: 100_000},
	{stage: StagePrototype, minValuation: 500_000},
}

func StageFor(c domain.Company) string {
	for _, rule := range stageLadder {
		if c.Valuation >= rule.minValuation && c.Revenue >= rule.minRevenue {
			return rule.stage
		}
	}
	return StageIdea
}

func knownMetric(name string) bool {
	for _, m := range effectOrder {
		if m == name {
			return true
		}
	}
	return false
}

// applyEffects lands a decision's effects scaled by riskFactor
func applyEffects(c domain.Company, effects map[string]float64, riskFactor float64, cfg Config) domain.Company {
	for _, metric := range effectOrder {
		v, ok := effects[metric]
		if !ok {
			continue
		}
		v *= riskFactor
		switch metric {
		case MetricFunding:
			c.Funding = math.Max(0, c.Funding+v)
		case MetricRevenue:
			c.Revenue = math.Max(0, c.Revenue*cfg.RevenueCarry+v)
		case MetricValuation:
			c.Valuation = math.Max(0, c.Valuation+v)
		case MetricMarketShare:
			c.MarketShare = math.Max(0, c.MarketShare+v)
		case MetricEmployees:
			c.Employees = int(math.Round(float64(c.Employees) + v))
		case MetricBurnRate:
			c.BurnRate = math.Min(c.BurnRate+v, c.Funding*cfg.BurnCap)
		}
	}
	c.Stage = StageFor(c)
	return c
}

// applyMarketEvent scales valuation, revenue and market share. other
// metrics in the event are ignored
func applyMarketEvent(c domain.Company, e domain.MarketEvent) domain.Company {
	for metric, multiplier := range e.Effect {
		switch metric {
		case MetricValuation:
			c.Valuation = math.Max(0, c.Valuation*multiplier)
		case MetricRevenue:
			c.Revenue = math.Max(0, c.Revenue*multiplier)
		case MetricMarketShare:
			c.MarketShare = math.Max(0, c.MarketShare*multiplier)
		}
	}
	return c
}

func vars(c domain.Company) map[string]interface{} {
	return map[string]interface{}{
		"stage":       c.Stage,
		"valuation":   c.Valuation,
		"revenue":     c.Revenue,
		"funding":     c.Funding,
		"burnRate":    c.BurnRate,
		"marketShare": c.MarketShare,
		"employees":   c.Employees,
	}
}
