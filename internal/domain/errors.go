package domain

import "errors"

// all of these are recoverable. the operation that returns one
// leaves its state untouched
var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrUnknownPosition       = errors.New("unknown position")
	ErrUnknownContract       = errors.New("unknown option contract")
	ErrUnknownAsset          = errors.New("unknown asset")
	ErrInvalidAllocation     = errors.New("invalid allocation")
	ErrEmptyScoringInput     = errors.New("nothing to score")
	ErrUnknownDecisionOption = errors.New("unknown decision option")
	ErrUnknownRegime         = errors.New("unknown regime")
	ErrUnknownScenario       = errors.New("unknown scenario")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrAwaitingDecision      = errors.New("a decision must be made before advancing")
	ErrNoPendingDecision     = errors.New("no decision is pending")
	ErrScenarioComplete      = errors.New("scenario is complete")
)

// IsUserError reports whether err is one of the kinds above, ie
// something the caller did rather than something that broke
func IsUserError(err error) bool {
	for _, e := range []error{
		ErrInsufficientFunds,
		ErrInvalidQuantity,
		ErrUnknownPosition,
		ErrUnknownContract,
		ErrUnknownAsset,
		ErrInvalidAllocation,
		ErrEmptyScoringInput,
		ErrUnknownDecisionOption,
		ErrUnknownRegime,
		ErrUnknownScenario,
		ErrInvalidParameter,
		ErrAwaitingDecision,
		ErrNoPendingDecision,
		ErrScenarioComplete,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
