package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletStatus string

const (
	WalletStatusPending   WalletStatus = "PENDING"
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
)

// Wallet is the per-seller running balance account. Balance never goes
// negative; debits are clamped to the available balance at write time.
type Wallet struct {
	ID          int32           `json:"id"`
	SellerCode  string          `json:"seller_code"`
	Balance     decimal.Decimal `json:"balance"`
	IsActivated bool            `json:"is_activated"`
	Status      WalletStatus    `json:"status"`
	ActivatedAt *time.Time      `json:"activated_at,omitempty"`
	CreatedOn   string          `json:"created_on"`
	UpdatedOn   string          `json:"updated_on"`
}

// CanTransact reports whether the wallet may be credited or debited.
func (w *Wallet) CanTransact() bool {
	return w.IsActivated && w.Status == WalletStatusActive
}
