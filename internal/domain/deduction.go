package domain

import "github.com/shopspring/decimal"

// DeductionResult distinguishes "just applied" from "already applied" and from
// a no-op on a source that is not in its completed state. None of the three is
// an error.
type DeductionResult string

const (
	DeductionApplied        DeductionResult = "APPLIED"
	DeductionAlreadyApplied DeductionResult = "ALREADY_APPLIED"
	DeductionSkipped        DeductionResult = "SKIPPED"
)

// DeductionOutcome reports what the fee pipeline did for one completion event.
// AmountDebited can be lower than FeeComputed when the wallet balance capped
// the debit.
type DeductionOutcome struct {
	Result        DeductionResult     `json:"result"`
	ReferenceType WalletReferenceType `json:"reference_type"`
	ReferenceID   int32               `json:"reference_id"`
	SellerCode    string              `json:"seller_code,omitempty"`
	FeeBasis      decimal.Decimal     `json:"fee_basis"`
	RatePercent   decimal.Decimal     `json:"rate_percent"`
	FeeComputed   decimal.Decimal     `json:"fee_computed"`
	AmountDebited decimal.Decimal     `json:"amount_debited"`
	NewBalance    decimal.Decimal     `json:"new_balance"`
	TransactionID string              `json:"transaction_id,omitempty"`
}
