package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAmount_AcceptsSevenFractionalDigits(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("0.0000001")))
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("123.4567891")))
}

func TestValidateAmount_RejectsExcessPrecision(t *testing.T) {
	err := ValidateAmount(decimal.RequireFromString("1.00000001"))

	assert.Equal(t, KindValidation, KindOf(err))
}

func TestValidateAmount_RejectsNonPositive(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ValidateAmount(decimal.Zero)))
	assert.Equal(t, KindValidation, KindOf(ValidateAmount(decimal.NewFromInt(-5))))
}

func TestAmountToStroops(t *testing.T) {
	assert.Equal(t, int64(10_000_000), AmountToStroops(decimal.NewFromInt(1)))
	assert.Equal(t, int64(1), AmountToStroops(decimal.RequireFromString("0.0000001")))
	assert.Equal(t, int64(55_000_000), AmountToStroops(decimal.RequireFromString("5.5")))
}

func TestAvailableForInvestment_HoldsBackFeeReserve(t *testing.T) {
	available := AvailableForInvestment(decimal.NewFromInt(10))

	assert.True(t, decimal.RequireFromString("9.99").Equal(available))
}

func TestAvailableForInvestment_FlooredAtZero(t *testing.T) {
	assert.True(t, AvailableForInvestment(decimal.RequireFromString("0.005")).IsZero())
	assert.True(t, AvailableForInvestment(decimal.Zero).IsZero())
}
