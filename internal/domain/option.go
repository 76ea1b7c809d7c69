package domain

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

type PositionSide string

const (
	PositionSideBuy  PositionSide = "buy"
	PositionSideSell PositionSide = "sell"
)

// Sign is +1 for long positions and -1 for written ones
func (s PositionSide) Sign() float64 {
	if s == PositionSideSell {
		return -1
	}
	return 1
}

func (s PositionSide) Valid() bool {
	return s == PositionSideBuy || s == PositionSideSell
}

// ContractMultiplier is the number of shares one contract controls
const ContractMultiplier = 100

type OptionContract struct {
	ID               string     `json:"id"`
	Type             OptionType `json:"type"`
	Strike           float64    `json:"strike"`
	Premium          float64    `json:"premium"`
	ExpirationLabel  string     `json:"expiration"`
	UnderlyingSymbol string     `json:"underlying"`
	ReferencePrice   float64    `json:"referencePrice"`
}

// IntrinsicValue is what the contract would be worth if exercised
// with the underlying at price
func (c OptionContract) IntrinsicValue(price float64) float64 {
	if c.Type == OptionTypePut {
		return math.Max(0, c.Strike-price)
	}
	return math.Max(0, price-c.Strike)
}

type OptionPosition struct {
	ID       uuid.UUID      `json:"id"`
	Contract OptionContract `json:"contract"`
	Quantity int            `json:"quantity"`
	Side     PositionSide   `json:"side"`
}

// CostBasis is premium x quantity x 100, signed by side. buying
// costs cash and writing receives it
func (p OptionPosition) CostBasis() decimal.Decimal {
	return decimal.NewFromFloat(p.Contract.Premium).
		Mul(decimal.NewFromInt(int64(p.Quantity * ContractMultiplier))).
		Mul(decimal.NewFromFloat(p.Side.Sign()))
}
