package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeFee(t *testing.T) {
	policy := DefaultFeePolicy()

	tests := []struct {
		name  string
		basis string
		rate  string
		want  string
	}{
		{"five percent of 200", "200.00", "5", "10.00"},
		{"five percent of 40", "40.00", "5", "2.00"},
		{"rounds half up", "10.10", "5", "0.51"},    // 0.505 -> 0.51
		{"rounds down below half", "10.09", "5", "0.50"}, // 0.5045 -> 0.50
		{"zero basis", "0.00", "5", "0.00"},
		{"zero rate", "200.00", "0", "0.00"},
		{"minimum fee clamp", "5.00", "0.01", "0.01"}, // raw 0.0005 rounds to 0
		{"no clamp under minimum basis", "0.50", "0.01", "0.00"},
		{"full rate", "12.34", "100", "12.34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeFee(d(tt.basis), d(tt.rate), policy)
			if err != nil {
				t.Fatalf("ComputeFee returned error: %v", err)
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("ComputeFee(%s, %s%%) = %s, want %s", tt.basis, tt.rate, got, tt.want)
			}
		})
	}
}

func TestComputeFee_RejectsBadInput(t *testing.T) {
	policy := DefaultFeePolicy()

	if _, err := ComputeFee(d("-1.00"), d("5"), policy); err == nil {
		t.Error("expected error for negative basis")
	}
	if _, err := ComputeFee(d("10.00"), d("-5"), policy); err == nil {
		t.Error("expected error for negative rate")
	}
	if _, err := ComputeFee(d("10.00"), d("101"), policy); err == nil {
		t.Error("expected error for rate above 100")
	}
}

func TestCapToBalance(t *testing.T) {
	tests := []struct {
		name    string
		fee     string
		balance string
		want    string
	}{
		{"fee below balance", "2.00", "1000.00", "2.00"},
		{"fee above balance is capped", "2.00", "1.00", "1.00"},
		{"fee equals balance", "2.00", "2.00", "2.00"},
		{"empty wallet", "2.00", "0.00", "0.00"},
		{"negative balance never increases debit", "2.00", "-5.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CapToBalance(d(tt.fee), d(tt.balance))
			if !got.Equal(d(tt.want)) {
				t.Errorf("CapToBalance(%s, %s) = %s, want %s", tt.fee, tt.balance, got, tt.want)
			}
		})
	}
}
