package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"campustrade-backend/internal/domain"
)

// DeductionRequest is the input to the atomic fee-deduction unit. Fee is the
// computed platform fee; the repository caps the actual debit to the locked
// wallet balance.
type DeductionRequest struct {
	SellerCode    string
	ReferenceType domain.WalletReferenceType
	ReferenceID   int32
	Fee           decimal.Decimal
	Description   string
}

// DeductionApplied reports what the atomic unit persisted. AlreadyApplied is
// true when a completed deduction row for the same reference existed and
// nothing was mutated.
type DeductionApplied struct {
	AlreadyApplied  bool
	TransactionID   string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
}

// AdjustmentRequest is an administrative balance override. Amount is signed;
// a negative adjustment that would overdraw the wallet is rejected.
type AdjustmentRequest struct {
	WalletID int32
	Amount   decimal.Decimal
	Reason   string
	ActorID  int32
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id int32) (*domain.Wallet, error)
	GetBySellerCode(ctx context.Context, sellerCode string) (*domain.Wallet, error)
	Activate(ctx context.Context, sellerCode string) (*domain.Wallet, error)

	// ApplyDeduction runs the whole fee pipeline write inside one transaction:
	// wallet row lock, ledger idempotency check, capped balance debit, ledger
	// insert, and the source record's processed flag.
	ApplyDeduction(ctx context.Context, req *DeductionRequest) (*DeductionApplied, error)
	ApplyAdjustment(ctx context.Context, req *AdjustmentRequest) (*domain.Wallet, *domain.WalletTransaction, error)
	ApplyRefill(ctx context.Context, sellerCode string, amount decimal.Decimal, description string) (*domain.Wallet, *domain.WalletTransaction, error)

	ListTransactions(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)

	// TransitionStatus performs a guarded status update and reports whether a
	// row actually changed, so callers can act exactly once per real transition.
	TransitionStatus(ctx context.Context, id int32, from, to domain.OrderStatus) (bool, error)

	ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error)
	ListBySeller(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.Order, int32, error)
	ListUnprocessedCompleted(ctx context.Context, limit int32) ([]domain.Order, error)
}

type TradeRepository interface {
	Create(ctx context.Context, trade *domain.TradeTransaction) error
	GetByID(ctx context.Context, id int32) (*domain.TradeTransaction, error)

	TransitionStatus(ctx context.Context, id int32, from, to domain.TradeStatus) (bool, error)
	SoftDelete(ctx context.Context, id int32) error

	GetOfferedItem(ctx context.Context, itemID int32) (*domain.OfferedItem, error)
	UpdateOfferedItem(ctx context.Context, item *domain.OfferedItem) error

	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.TradeTransaction, int32, error)
	ListUnprocessedCompleted(ctx context.Context, limit int32) ([]domain.TradeTransaction, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetBySellerCode(ctx context.Context, sellerCode string) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
