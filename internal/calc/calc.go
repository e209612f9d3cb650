// Package calc implements the standalone tip and pay arithmetic behind the
// tip and pay commands. Everything runs on decimals and rounds half-up to
// cents, matching how the allocation engine treats money.
package calc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tip returns amount * percent / 100, rounded half-up to cents.
func Tip(amount, percent decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must be non-negative, got %s", amount)
	}
	if percent.IsNegative() {
		return decimal.Zero, fmt.Errorf("percent must be non-negative, got %s", percent)
	}
	return amount.Mul(percent).Shift(-2).Round(2), nil
}

// Total returns the amount plus its tip, rounded to cents.
func Total(amount, percent decimal.Decimal) (decimal.Decimal, error) {
	tip, err := Tip(amount, percent)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Add(tip).Round(2), nil
}

// Pay returns hours * rate, rounded half-up to cents.
func Pay(hours, rate decimal.Decimal) (decimal.Decimal, error) {
	if hours.IsNegative() {
		return decimal.Zero, fmt.Errorf("hours must be non-negative, got %s", hours)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("rate must be non-negative, got %s", rate)
	}
	return hours.Mul(rate).Round(2), nil
}
