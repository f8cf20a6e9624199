package unit

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/repository"
)

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}
func (m *MockWalletRepo) GetByID(ctx context.Context, id int32) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) GetBySellerCode(ctx context.Context, sellerCode string) (*domain.Wallet, error) {
	args := m.Called(ctx, sellerCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) Activate(ctx context.Context, sellerCode string) (*domain.Wallet, error) {
	args := m.Called(ctx, sellerCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) ApplyDeduction(ctx context.Context, req *repository.DeductionRequest) (*repository.DeductionApplied, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DeductionApplied), args.Error(1)
}
func (m *MockWalletRepo) ApplyAdjustment(ctx context.Context, req *repository.AdjustmentRequest) (*domain.Wallet, *domain.WalletTransaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.WalletTransaction), args.Error(2)
}
func (m *MockWalletRepo) ApplyRefill(ctx context.Context, sellerCode string, amount decimal.Decimal, description string) (*domain.Wallet, *domain.WalletTransaction, error) {
	args := m.Called(ctx, sellerCode, amount, description)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.WalletTransaction), args.Error(2)
}
func (m *MockWalletRepo) ListTransactions(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, sellerCode, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) TransitionStatus(ctx context.Context, id int32, from, to domain.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepo) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, buyerID, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrderRepo) ListBySeller(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, sellerCode, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrderRepo) ListUnprocessedCompleted(ctx context.Context, limit int32) ([]domain.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Order), args.Error(1)
}

// MockTradeRepo
type MockTradeRepo struct {
	mock.Mock
}

func (m *MockTradeRepo) Create(ctx context.Context, trade *domain.TradeTransaction) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}
func (m *MockTradeRepo) GetByID(ctx context.Context, id int32) (*domain.TradeTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TradeTransaction), args.Error(1)
}
func (m *MockTradeRepo) TransitionStatus(ctx context.Context, id int32, from, to domain.TradeStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockTradeRepo) SoftDelete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTradeRepo) GetOfferedItem(ctx context.Context, itemID int32) (*domain.OfferedItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfferedItem), args.Error(1)
}
func (m *MockTradeRepo) UpdateOfferedItem(ctx context.Context, item *domain.OfferedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockTradeRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.TradeTransaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.TradeTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTradeRepo) ListUnprocessedCompleted(ctx context.Context, limit int32) ([]domain.TradeTransaction, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.TradeTransaction), args.Error(1)
}

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// MockSettingRepo
type MockSettingRepo struct {
	mock.Mock
}

func (m *MockSettingRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *MockSettingRepo) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetBySellerCode(ctx context.Context, sellerCode string) (*domain.User, error) {
	args := m.Called(ctx, sellerCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendTradeStatusNotification(ctx context.Context, email, name, productName string, status domain.TradeStatus) error {
	args := m.Called(ctx, email, name, productName, status)
	return args.Error(0)
}
func (m *MockEmailService) SendFeeDeductionNotification(ctx context.Context, email, name, source string, amount, newBalance decimal.Decimal) error {
	args := m.Called(ctx, email, name, source, amount, newBalance)
	return args.Error(0)
}
func (m *MockEmailService) SendWalletAdjustmentNotification(ctx context.Context, email, name, reason string, amount decimal.Decimal) error {
	args := m.Called(ctx, email, name, reason, amount)
	return args.Error(0)
}

// MockDeductionEngine
type MockDeductionEngine struct {
	mock.Mock
}

func (m *MockDeductionEngine) ProcessCompletion(ctx context.Context, refType domain.WalletReferenceType, sourceID int32) (*domain.DeductionOutcome, error) {
	args := m.Called(ctx, refType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeductionOutcome), args.Error(1)
}
