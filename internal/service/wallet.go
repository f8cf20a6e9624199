package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/logger"
	"campustrade-backend/internal/repository"
)

type walletService struct {
	walletRepo repository.WalletRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
}

func NewWalletService(
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) WalletService {
	return &walletService{
		walletRepo: walletRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
	}
}

func (s *walletService) CreateWallet(ctx context.Context, sellerCode string) (*domain.Wallet, error) {
	if strings.TrimSpace(sellerCode) == "" {
		return nil, fmt.Errorf("%w: seller code is required", domain.ErrValidation)
	}
	wallet := &domain.Wallet{
		SellerCode: sellerCode,
		Balance:    decimal.Zero,
		Status:     domain.WalletStatusPending,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	logger.Info("Wallet created", "sellerCode", sellerCode, "walletID", wallet.ID)
	return wallet, nil
}

func (s *walletService) ActivateWallet(ctx context.Context, sellerCode string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.Activate(ctx, sellerCode)
	if err != nil {
		return nil, err
	}
	logger.Info("Wallet activated", "sellerCode", sellerCode, "walletID", wallet.ID)
	return wallet, nil
}

func (s *walletService) GetWalletSummary(ctx context.Context, sellerCode string) (*WalletSummary, error) {
	wallet, err := s.walletRepo.GetBySellerCode(ctx, sellerCode)
	if err != nil {
		return nil, err
	}
	recent, count, err := s.walletRepo.ListTransactions(ctx, sellerCode, 1, 10)
	if err != nil {
		return nil, err
	}
	return &WalletSummary{
		Wallet:             wallet,
		RecentTransactions: recent,
		TransactionCount:   count,
	}, nil
}

func (s *walletService) GetTransactions(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.walletRepo.ListTransactions(ctx, sellerCode, page, pageSize)
}

// AdjustWalletBalance bypasses the fee pipeline but writes an ADJUSTMENT
// ledger row with the same atomicity guarantees. Overdrawing adjustments are
// refused rather than clamped; an operator should see the failure.
func (s *walletService) AdjustWalletBalance(ctx context.Context, walletID int32, amount decimal.Decimal, reason string, actorID int32) (*domain.Wallet, error) {
	logger.EnterMethod("walletService.AdjustWalletBalance", "walletID", walletID, "amount", amount, "actorID", actorID)

	if amount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount must not be zero", domain.ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", domain.ErrValidation)
	}

	wallet, entry, err := s.walletRepo.ApplyAdjustment(ctx, &repository.AdjustmentRequest{
		WalletID: walletID,
		Amount:   amount,
		Reason:   reason,
		ActorID:  actorID,
	})
	if err != nil {
		logger.ExitMethodWithError("walletService.AdjustWalletBalance", err, "walletID", walletID)
		return nil, err
	}

	// Fire-and-forget: adjustment already committed.
	if seller, err := s.userRepo.GetBySellerCode(ctx, wallet.SellerCode); err == nil {
		if err := s.emailSvc.SendWalletAdjustmentNotification(ctx, seller.Email, seller.Name, reason, amount); err != nil {
			logger.Warn("Adjustment email failed", "sellerCode", wallet.SellerCode, "error", err)
		}
	}

	logger.ExitMethod("walletService.AdjustWalletBalance",
		"walletID", walletID, "transactionID", entry.ID, "newBalance", wallet.Balance)
	return wallet, nil
}

func (s *walletService) RefillWallet(ctx context.Context, sellerCode string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: refill amount must be positive", domain.ErrValidation)
	}
	wallet, entry, err := s.walletRepo.ApplyRefill(ctx, sellerCode, amount,
		fmt.Sprintf("Wallet refill of ₱%s", amount))
	if err != nil {
		return nil, err
	}
	logger.Info("Wallet refilled", "sellerCode", sellerCode, "amount", amount,
		"transactionID", entry.ID, "newBalance", wallet.Balance)
	return wallet, nil
}
