package domain

// CrisisScenario is a historical crash replayed on a synthetic index
type CrisisScenario struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description" yaml:"description"`
	StartLabel  string `json:"startLabel" yaml:"startLabel"`
	// in days
	Duration int `json:"duration" yaml:"duration" validate:"gt=0"`
	// extreme, severe or mild. picks the crisis-<severity> regime
	Severity  string             `json:"severity" yaml:"severity" validate:"oneof=extreme severe mild"`
	Decisions []DecisionTemplate `json:"decisions" yaml:"decisions" validate:"dive"`
}

type MarketEvent struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description"`
	// metric -> multiplier
	Effect map[string]float64 `json:"effect" yaml:"effect" validate:"required"`
}

type Company struct {
	Name        string  `json:"name" yaml:"name"`
	Industry    string  `json:"industry" yaml:"industry"`
	Stage       string  `json:"stage" yaml:"stage"`
	Valuation   float64 `json:"valuation" yaml:"valuation" validate:"gte=0"`
	Revenue     float64 `json:"revenue" yaml:"revenue" validate:"gte=0"`
	Employees   int     `json:"employees" yaml:"employees" validate:"gte=1"`
	Funding     float64 `json:"funding" yaml:"funding" validate:"gte=0"`
	BurnRate    float64 `json:"burnRate" yaml:"burnRate" validate:"gte=0"`
	MarketShare float64 `json:"marketShare" yaml:"marketShare" validate:"gte=0"`
}

type StartupScript struct {
	Company Company `json:"company" yaml:"company"`
	// in quarters
	Duration         int                `json:"duration" yaml:"duration" validate:"gt=0"`
	EventProbability float64            `json:"eventProbability" yaml:"eventProbability" validate:"gte=0,lte=1"`
	Events           []MarketEvent      `json:"events" yaml:"events" validate:"dive"`
	Decisions        []DecisionTemplate `json:"decisions" yaml:"decisions" validate:"dive"`
}
