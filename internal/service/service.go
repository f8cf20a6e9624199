package service

import (
	"context"

	"github.com/shopspring/decimal"

	"campustrade-backend/internal/domain"
)

// DeductionEngine observes completion events from orders and trades and runs
// the platform fee pipeline exactly once per completed source record.
type DeductionEngine interface {
	ProcessCompletion(ctx context.Context, refType domain.WalletReferenceType, sourceID int32) (*domain.DeductionOutcome, error)
}

// WalletSummary is the seller-dashboard view of a wallet.
type WalletSummary struct {
	Wallet             *domain.Wallet             `json:"wallet"`
	RecentTransactions []domain.WalletTransaction `json:"recent_transactions"`
	TransactionCount   int32                      `json:"transaction_count"`
}

type WalletService interface {
	CreateWallet(ctx context.Context, sellerCode string) (*domain.Wallet, error)
	ActivateWallet(ctx context.Context, sellerCode string) (*domain.Wallet, error)
	GetWalletSummary(ctx context.Context, sellerCode string) (*WalletSummary, error)
	GetTransactions(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
	AdjustWalletBalance(ctx context.Context, walletID int32, amount decimal.Decimal, reason string, actorID int32) (*domain.Wallet, error)
	RefillWallet(ctx context.Context, sellerCode string, amount decimal.Decimal) (*domain.Wallet, error)
}

// CreateTradeInput is the buyer's side of a new barter offer.
type CreateTradeInput struct {
	ProductID      int32                `json:"product_id"`
	AdditionalCash decimal.Decimal      `json:"additional_cash"`
	MeetupLocation string               `json:"meetup_location"`
	MeetupSchedule string               `json:"meetup_schedule"`
	OfferedItems   []domain.OfferedItem `json:"offered_items"`
}

type TradeService interface {
	CreateTrade(ctx context.Context, buyerID int32, input *CreateTradeInput) (*domain.TradeTransaction, error)
	GetTrade(ctx context.Context, userID, tradeID int32) (*domain.TradeTransaction, error)
	ListTrades(ctx context.Context, userID int32, page, pageSize int32) ([]domain.TradeTransaction, int32, error)

	AcceptTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, error)
	RejectTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, error)
	CancelTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, error)
	// CompleteTrade returns the updated trade even when the fee deduction
	// fails; the error then describes the pending deduction.
	CompleteTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, *domain.DeductionOutcome, error)
	DeleteTrade(ctx context.Context, actorID, tradeID int32) error

	UpdateOfferedItem(ctx context.Context, actorID int32, item *domain.OfferedItem) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID int32, sellerCode string, items []domain.OrderItem) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error)
	// UpdateOrderStatus returns the updated order even when a completion's fee
	// deduction fails; the error then describes the pending deduction.
	UpdateOrderStatus(ctx context.Context, actorID, orderID int32, next domain.OrderStatus) (*domain.Order, *domain.DeductionOutcome, error)
	ListOrdersByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error)
	ListOrdersBySeller(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.Order, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendTradeStatusNotification(ctx context.Context, email, name, productName string, status domain.TradeStatus) error
	SendFeeDeductionNotification(ctx context.Context, email, name, source string, amount, newBalance decimal.Decimal) error
	SendWalletAdjustmentNotification(ctx context.Context, email, name, reason string, amount decimal.Decimal) error
}
