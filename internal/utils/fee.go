package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeePolicy carries the knobs of the platform fee computation. MinimumFee is
// the smallest chargeable amount (one centavo); MinimumFeeBasis is the basis
// below which a sub-centavo fee is allowed to round to zero.
type FeePolicy struct {
	MinimumFee      decimal.Decimal
	MinimumFeeBasis decimal.Decimal
}

// DefaultFeePolicy charges at least ₱0.01 on any basis of ₱1.00 or more.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		MinimumFee:      decimal.New(1, -2),
		MinimumFeeBasis: decimal.New(1, 0),
	}
}

// ComputeFee returns round-half-up(basis * ratePercent / 100, 2). When the
// basis meets the policy minimum but the rounded fee falls under the smallest
// currency unit, the fee is clamped up to that unit so small nonzero
// transactions still produce revenue.
func ComputeFee(basis, ratePercent decimal.Decimal, policy FeePolicy) (decimal.Decimal, error) {
	if basis.IsNegative() {
		return decimal.Zero, fmt.Errorf("fee basis must not be negative, got %s", basis)
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("rate percent must be between 0 and 100, got %s", ratePercent)
	}

	raw := basis.Mul(ratePercent).Div(decimal.NewFromInt(100))
	// Round is half away from zero, which for non-negative amounts is the
	// currency-correct half-up.
	fee := raw.Round(2)

	if raw.IsPositive() && fee.LessThan(policy.MinimumFee) && basis.GreaterThanOrEqual(policy.MinimumFeeBasis) {
		fee = policy.MinimumFee
	}
	return fee, nil
}

// CapToBalance returns the amount actually debitable given the available
// balance: min(fee, balance), never negative.
func CapToBalance(fee, balance decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return decimal.Zero
	}
	if fee.GreaterThan(balance) {
		return balance
	}
	return fee
}
