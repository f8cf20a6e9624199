package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletTransactionType string

const (
	WalletTransactionTypeCredit     WalletTransactionType = "CREDIT"
	WalletTransactionTypeDebit      WalletTransactionType = "DEBIT"
	WalletTransactionTypeDeduction  WalletTransactionType = "DEDUCTION"
	WalletTransactionTypeAdjustment WalletTransactionType = "ADJUSTMENT"
	WalletTransactionTypeRefill     WalletTransactionType = "REFILL"
)

type WalletReferenceType string

const (
	WalletReferenceTypeOrder        WalletReferenceType = "ORDER"
	WalletReferenceTypeTrade        WalletReferenceType = "TRADE"
	WalletReferenceTypeAdjustment   WalletReferenceType = "ADJUSTMENT"
	WalletReferenceTypeRefill       WalletReferenceType = "REFILL"
	WalletReferenceTypeVerification WalletReferenceType = "VERIFICATION"
	WalletReferenceTypeWithdrawal   WalletReferenceType = "WITHDRAWAL"
)

type WalletTransactionStatus string

const (
	WalletTransactionStatusPending   WalletTransactionStatus = "PENDING"
	WalletTransactionStatusCompleted WalletTransactionStatus = "COMPLETED"
	WalletTransactionStatusFailed    WalletTransactionStatus = "FAILED"
	WalletTransactionStatusRejected  WalletTransactionStatus = "REJECTED"
)

// WalletTransaction is one append-only ledger entry. Amount is always stored
// positive; the type carries the direction. PreviousBalance and NewBalance are
// captured at write time and are never recomputed. A completed row is immutable.
//
// IDs are UUIDs rather than sequences so concurrent writers can never collide
// on an idempotency re-check.
type WalletTransaction struct {
	ID              string                  `json:"id"`
	SellerCode      string                  `json:"seller_code"`
	Type            WalletTransactionType   `json:"type"`
	Amount          decimal.Decimal         `json:"amount"`
	PreviousBalance decimal.Decimal         `json:"previous_balance"`
	NewBalance      decimal.Decimal         `json:"new_balance"`
	ReferenceType   WalletReferenceType     `json:"reference_type"`
	ReferenceID     int32                   `json:"reference_id"`
	Status          WalletTransactionStatus `json:"status"`
	Description     string                  `json:"description"`
	ProcessedAt     *time.Time              `json:"processed_at,omitempty"`
	CreatedOn       string                  `json:"created_on"`
}
