package options

import (
	"math"

	"investlab/internal/domain"
)

// DefaultRetentionFactor is how much of the opening time value a
// contract keeps after one step of decay. it's a heuristic, not a
// pricing model
const DefaultRetentionFactor = 0.8

type Quote struct {
	IntrinsicValue          float64 `json:"intrinsicValue"`
	ApproximateCurrentValue float64 `json:"approximateCurrentValue"`
}

// QuoteContract values the contract at underlyingPrice. time value is
// what the premium paid above intrinsic at the reference price, decayed
// by retention
func QuoteContract(contract domain.OptionContract, underlyingPrice, retention float64) Quote {
	intrinsic := contract.IntrinsicValue(underlyingPrice)
	timeValue := math.Max(0, contract.Premium-contract.IntrinsicValue(contract.ReferencePrice))

	return Quote{
		IntrinsicValue:          intrinsic,
		ApproximateCurrentValue: intrinsic + timeValue*retention,
	}
}
