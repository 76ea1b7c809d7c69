package domain

// DecisionOption is one choice on a decision menu. Cost and Effects
// are only read by scenarios that track a metric set instead of a
// single value
type DecisionOption struct {
	Text                    string             `json:"text" yaml:"text" validate:"required"`
	Explanation             string             `json:"explanation" yaml:"explanation"`
	ImpactPercent           float64            `json:"impactPercent" yaml:"impactPercent"`
	ProbabilityOfFullEffect float64            `json:"probabilityOfFullEffect" yaml:"probabilityOfFullEffect" validate:"gte=0,lte=1"`
	Cost                    float64            `json:"cost,omitempty" yaml:"cost" validate:"gte=0"`
	Effects                 map[string]float64 `json:"effects,omitempty" yaml:"effects"`
}

// DecisionTemplate is a scripted branch point. it fires once when the
// run reaches TriggerIndex and Condition (if any) holds
type DecisionTemplate struct {
	ID           string           `json:"id" yaml:"id" validate:"required"`
	TriggerIndex int              `json:"triggerIndex" yaml:"triggerIndex" validate:"gte=1"`
	Title        string           `json:"title" yaml:"title"`
	Narrative    string           `json:"narrative" yaml:"narrative" validate:"required"`
	Condition    string           `json:"condition,omitempty" yaml:"condition"`
	Options      []DecisionOption `json:"options" yaml:"options" validate:"required,min=1,dive"`
}
