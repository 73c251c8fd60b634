package domain

import (
	"github.com/shopspring/decimal"
)

// MaxAmountPrecision is the maximum number of fractional digits the target
// ledger supports for native-asset amounts.
const MaxAmountPrecision = 7

// StroopsPerLumen is the number of smallest units in one whole native asset.
var StroopsPerLumen = decimal.New(1, 7)

// FeeReserve is the slice of the available balance held back from investment
// amounts to cover transaction fees.
var FeeReserve = decimal.RequireFromString("0.01")

// ValidateAmount ensures an investment amount is positive and representable
// on the ledger.
// Returns a ValidationError if validation fails.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount must be positive, got %s", amount)
	}
	if amount.Exponent() < -MaxAmountPrecision {
		return NewValidationError("amount %s exceeds %d fractional digits", amount, MaxAmountPrecision)
	}
	return nil
}

// AmountToStroops converts a native-asset amount to its smallest-unit
// integer representation.
func AmountToStroops(amount decimal.Decimal) int64 {
	return amount.Mul(StroopsPerLumen).IntPart()
}

// AvailableForInvestment returns the portion of balance spendable on an
// investment after the fee reserve, floored at zero.
func AvailableForInvestment(balance decimal.Decimal) decimal.Decimal {
	available := balance.Sub(FeeReserve)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}
