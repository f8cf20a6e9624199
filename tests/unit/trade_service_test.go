package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/service"
)

type tradeMocks struct {
	tradeRepo   *MockTradeRepo
	productRepo *MockProductRepo
	walletRepo  *MockWalletRepo
	userRepo    *MockUserRepo
	noteRepo    *MockNotificationRepo
	emailSvc    *MockEmailService
	engine      *MockDeductionEngine
}

func newTradeService() (service.TradeService, *tradeMocks) {
	m := &tradeMocks{
		tradeRepo:   new(MockTradeRepo),
		productRepo: new(MockProductRepo),
		walletRepo:  new(MockWalletRepo),
		userRepo:    new(MockUserRepo),
		noteRepo:    new(MockNotificationRepo),
		emailSvc:    new(MockEmailService),
		engine:      new(MockDeductionEngine),
	}
	svc := service.NewTradeService(
		m.tradeRepo, m.productRepo, m.walletRepo, m.userRepo,
		m.noteRepo, m.emailSvc, m.engine,
	)
	return svc, m
}

func validOfferedItem() domain.OfferedItem {
	return domain.OfferedItem{
		Name:           "Desk lamp",
		Quantity:       1,
		EstimatedValue: dec("15.00"),
		Condition:      "good",
		Images:         []string{"lamp-front.jpg"},
	}
}

func TestTradeService_CreateTrade(t *testing.T) {
	ctx := context.Background()
	buyerID := int32(1)

	product := &domain.Product{ID: 42, SellerCode: "SELL-1", Name: "Calculator", Price: dec("40.00")}
	seller := &domain.User{ID: 2, SellerCode: "SELL-1", Email: "seller@test.com", Name: "Seller"}

	t.Run("Success", func(t *testing.T) {
		svc, m := newTradeService()
		m.productRepo.On("GetByID", ctx, int32(42)).Return(product, nil)
		m.userRepo.On("GetBySellerCode", ctx, "SELL-1").Return(seller, nil)
		m.tradeRepo.On("Create", ctx, mock.AnythingOfType("*domain.TradeTransaction")).Return(nil)
		m.walletRepo.On("GetBySellerCode", ctx, "SELL-1").Return(&domain.Wallet{ID: 1, SellerCode: "SELL-1"}, nil)
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		trade, err := svc.CreateTrade(ctx, buyerID, &service.CreateTradeInput{
			ProductID:      42,
			AdditionalCash: dec("10.00"),
			OfferedItems:   []domain.OfferedItem{validOfferedItem()},
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.TradeStatusPending, trade.Status)
		assert.Equal(t, buyerID, trade.BuyerID)
		assert.Equal(t, seller.ID, trade.SellerID)
	})

	t.Run("Provisions Pending Wallet For First Time Seller", func(t *testing.T) {
		svc, m := newTradeService()
		m.productRepo.On("GetByID", ctx, int32(42)).Return(product, nil)
		m.userRepo.On("GetBySellerCode", ctx, "SELL-1").Return(seller, nil)
		m.tradeRepo.On("Create", ctx, mock.AnythingOfType("*domain.TradeTransaction")).Return(nil)
		m.walletRepo.On("GetBySellerCode", ctx, "SELL-1").Return(nil, domain.ErrWalletNotFound)
		m.walletRepo.On("Create", ctx, mock.MatchedBy(func(w *domain.Wallet) bool {
			return w.SellerCode == "SELL-1" && w.Status == domain.WalletStatusPending
		})).Return(nil)
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		_, err := svc.CreateTrade(ctx, buyerID, &service.CreateTradeInput{
			ProductID:    42,
			OfferedItems: []domain.OfferedItem{validOfferedItem()},
		})
		assert.NoError(t, err)
		m.walletRepo.AssertCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Requires At Least One Offered Item", func(t *testing.T) {
		svc, _ := newTradeService()
		_, err := svc.CreateTrade(ctx, buyerID, &service.CreateTradeInput{ProductID: 42})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Offered Item Needs An Image", func(t *testing.T) {
		svc, _ := newTradeService()
		item := validOfferedItem()
		item.Images = nil
		_, err := svc.CreateTrade(ctx, buyerID, &service.CreateTradeInput{
			ProductID:    42,
			OfferedItems: []domain.OfferedItem{item},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Rejects Negative Cash", func(t *testing.T) {
		svc, _ := newTradeService()
		_, err := svc.CreateTrade(ctx, buyerID, &service.CreateTradeInput{
			ProductID:      42,
			AdditionalCash: dec("-5.00"),
			OfferedItems:   []domain.OfferedItem{validOfferedItem()},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Rejects Trading On Own Product", func(t *testing.T) {
		svc, m := newTradeService()
		m.productRepo.On("GetByID", ctx, int32(42)).Return(product, nil)
		m.userRepo.On("GetBySellerCode", ctx, "SELL-1").Return(seller, nil)

		_, err := svc.CreateTrade(ctx, seller.ID, &service.CreateTradeInput{
			ProductID:    42,
			OfferedItems: []domain.OfferedItem{validOfferedItem()},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func pendingTrade() *domain.TradeTransaction {
	return &domain.TradeTransaction{
		ID: 7, BuyerID: 1, SellerID: 2, SellerCode: "SELL-1",
		ProductID: 42, Status: domain.TradeStatusPending,
	}
}

func expectTransitionNotification(ctx context.Context, m *tradeMocks, recipientID int32) {
	m.productRepo.On("GetByID", ctx, int32(42)).Return(&domain.Product{ID: 42, Name: "Calculator"}, nil)
	m.userRepo.On("GetByID", ctx, recipientID).Return(&domain.User{ID: recipientID, Email: "u@test.com", Name: "U"}, nil)
	m.emailSvc.On("SendTradeStatusNotification", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
}

func TestTradeService_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("Seller Accepts Pending", func(t *testing.T) {
		svc, m := newTradeService()
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(pendingTrade(), nil)
		m.tradeRepo.On("TransitionStatus", ctx, int32(7), domain.TradeStatusPending, domain.TradeStatusAccepted).Return(true, nil)
		expectTransitionNotification(ctx, m, 1)

		trade, err := svc.AcceptTrade(ctx, 2, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.TradeStatusAccepted, trade.Status)
	})

	t.Run("Buyer Cannot Accept", func(t *testing.T) {
		svc, m := newTradeService()
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(pendingTrade(), nil)

		_, err := svc.AcceptTrade(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		m.tradeRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stranger Cannot Act", func(t *testing.T) {
		svc, m := newTradeService()
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(pendingTrade(), nil)

		_, err := svc.AcceptTrade(ctx, 99, 7)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Buyer Cancels Accepted", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusAccepted
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)
		m.tradeRepo.On("TransitionStatus", ctx, int32(7), domain.TradeStatusAccepted, domain.TradeStatusCanceled).Return(true, nil)
		expectTransitionNotification(ctx, m, 2)

		res, err := svc.CancelTrade(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.TradeStatusCanceled, res.Status)
	})

	t.Run("Cannot Complete Pending", func(t *testing.T) {
		svc, m := newTradeService()
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(pendingTrade(), nil)

		_, _, err := svc.CompleteTrade(ctx, 2, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		m.engine.AssertNotCalled(t, "ProcessCompletion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lost Race Does Not Fire Twice", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusAccepted
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)
		// Another request already moved the row; zero rows matched the guard.
		m.tradeRepo.On("TransitionStatus", ctx, int32(7), domain.TradeStatusAccepted, domain.TradeStatusCompleted).Return(false, nil)

		_, _, err := svc.CompleteTrade(ctx, 2, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		m.engine.AssertNotCalled(t, "ProcessCompletion", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTradeService_CompleteTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("Fires Deduction Once", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusAccepted
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)
		m.tradeRepo.On("TransitionStatus", ctx, int32(7), domain.TradeStatusAccepted, domain.TradeStatusCompleted).Return(true, nil)
		expectTransitionNotification(ctx, m, 1)
		m.engine.On("ProcessCompletion", ctx, domain.WalletReferenceTypeTrade, int32(7)).Return(&domain.DeductionOutcome{
			Result:        domain.DeductionApplied,
			AmountDebited: dec("2.00"),
			NewBalance:    dec("98.00"),
		}, nil)

		res, outcome, err := svc.CompleteTrade(ctx, 2, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.TradeStatusCompleted, res.Status)
		assert.Equal(t, domain.DeductionApplied, outcome.Result)
		m.engine.AssertNumberOfCalls(t, "ProcessCompletion", 1)
	})

	t.Run("Completion Survives Deduction Failure", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusAccepted
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)
		m.tradeRepo.On("TransitionStatus", ctx, int32(7), domain.TradeStatusAccepted, domain.TradeStatusCompleted).Return(true, nil)
		expectTransitionNotification(ctx, m, 1)
		m.engine.On("ProcessCompletion", ctx, domain.WalletReferenceTypeTrade, int32(7)).Return(nil, domain.ErrWalletInactive)

		res, outcome, err := svc.CompleteTrade(ctx, 2, 7)
		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrWalletInactive)
		assert.NotNil(t, res) // the completion itself stands
		assert.Equal(t, domain.TradeStatusCompleted, res.Status)
		assert.Nil(t, outcome)
	})
}

func TestTradeService_DeleteTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("Terminal Trade Deletes", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusRejected
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)
		m.tradeRepo.On("SoftDelete", ctx, int32(7)).Return(nil)

		assert.NoError(t, svc.DeleteTrade(ctx, 1, 7))
	})

	t.Run("Active Trade Refuses Deletion", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusAccepted
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)

		err := svc.DeleteTrade(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		m.tradeRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})

	t.Run("Stranger Cannot Delete", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusCompleted
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)

		assert.ErrorIs(t, svc.DeleteTrade(ctx, 99, 7), domain.ErrUnauthorized)
	})
}

func TestTradeService_UpdateOfferedItem(t *testing.T) {
	ctx := context.Background()

	existing := &domain.OfferedItem{ID: 3, TradeID: 7, Name: "Desk lamp", Quantity: 1, Images: []string{"old.jpg"}}

	t.Run("Buyer Edits Pending Trade", func(t *testing.T) {
		svc, m := newTradeService()
		m.tradeRepo.On("GetOfferedItem", ctx, int32(3)).Return(existing, nil)
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(pendingTrade(), nil)
		m.tradeRepo.On("UpdateOfferedItem", ctx, mock.AnythingOfType("*domain.OfferedItem")).Return(nil)

		item := validOfferedItem()
		item.ID = 3
		assert.NoError(t, svc.UpdateOfferedItem(ctx, 1, &item))
	})

	t.Run("Edit Cannot Drop Last Image", func(t *testing.T) {
		svc, m := newTradeService()
		m.tradeRepo.On("GetOfferedItem", ctx, int32(3)).Return(existing, nil)
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(pendingTrade(), nil)

		item := validOfferedItem()
		item.ID = 3
		item.Images = []string{}
		err := svc.UpdateOfferedItem(ctx, 1, &item)
		assert.ErrorIs(t, err, domain.ErrValidation)
		m.tradeRepo.AssertNotCalled(t, "UpdateOfferedItem", mock.Anything, mock.Anything)
	})

	t.Run("Seller Cannot Edit Buyer Items", func(t *testing.T) {
		svc, m := newTradeService()
		m.tradeRepo.On("GetOfferedItem", ctx, int32(3)).Return(existing, nil)
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(pendingTrade(), nil)

		item := validOfferedItem()
		item.ID = 3
		assert.ErrorIs(t, svc.UpdateOfferedItem(ctx, 2, &item), domain.ErrUnauthorized)
	})

	t.Run("Accepted Trade Is Frozen", func(t *testing.T) {
		svc, m := newTradeService()
		trade := pendingTrade()
		trade.Status = domain.TradeStatusAccepted
		m.tradeRepo.On("GetOfferedItem", ctx, int32(3)).Return(existing, nil)
		m.tradeRepo.On("GetByID", ctx, int32(7)).Return(trade, nil)

		item := validOfferedItem()
		item.ID = 3
		assert.ErrorIs(t, svc.UpdateOfferedItem(ctx, 1, &item), domain.ErrInvalidTransition)
	})
}
