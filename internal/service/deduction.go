package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/logger"
	"campustrade-backend/internal/repository"
	"campustrade-backend/internal/utils"
)

// DeductionRateSettingKey is the settings-store key holding the platform fee
// percentage. Changes apply prospectively only.
const DeductionRateSettingKey = "deduction_rate"

type deductionEngine struct {
	walletRepo  repository.WalletRepository
	orderRepo   repository.OrderRepository
	tradeRepo   repository.TradeRepository
	productRepo repository.ProductRepository
	settingRepo repository.SettingRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
	defaultRate decimal.Decimal
	feePolicy   utils.FeePolicy
}

func NewDeductionEngine(
	walletRepo repository.WalletRepository,
	orderRepo repository.OrderRepository,
	tradeRepo repository.TradeRepository,
	productRepo repository.ProductRepository,
	settingRepo repository.SettingRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	defaultRate decimal.Decimal,
	feePolicy utils.FeePolicy,
) DeductionEngine {
	return &deductionEngine{
		walletRepo:  walletRepo,
		orderRepo:   orderRepo,
		tradeRepo:   tradeRepo,
		productRepo: productRepo,
		settingRepo: settingRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
		defaultRate: defaultRate,
		feePolicy:   feePolicy,
	}
}

// completionSource is the engine's view of a completed order or trade.
type completionSource struct {
	sellerCode  string
	basis       decimal.Decimal
	completed   bool
	processed   bool
	description string
}

func (e *deductionEngine) ProcessCompletion(ctx context.Context, refType domain.WalletReferenceType, sourceID int32) (*domain.DeductionOutcome, error) {
	logger.EnterMethod("deductionEngine.ProcessCompletion", "refType", refType, "sourceID", sourceID)

	src, err := e.resolveSource(ctx, refType, sourceID)
	if err != nil {
		logger.ExitMethodWithError("deductionEngine.ProcessCompletion", err, "refType", refType, "sourceID", sourceID)
		return nil, err
	}

	outcome := &domain.DeductionOutcome{
		ReferenceType: refType,
		ReferenceID:   sourceID,
		SellerCode:    src.sellerCode,
	}

	// The engine re-validates completion itself: a non-completed source is a
	// no-op, not an error.
	if !src.completed {
		outcome.Result = domain.DeductionSkipped
		logger.ExitMethod("deductionEngine.ProcessCompletion", "result", outcome.Result, "sourceID", sourceID)
		return outcome, nil
	}

	// Cheap pre-check; the authoritative idempotency check runs inside the
	// wallet transaction.
	if src.processed {
		outcome.Result = domain.DeductionAlreadyApplied
		logger.ExitMethod("deductionEngine.ProcessCompletion", "result", outcome.Result, "sourceID", sourceID)
		return outcome, nil
	}

	rate := e.currentRate(ctx)
	fee, err := utils.ComputeFee(src.basis, rate, e.feePolicy)
	if err != nil {
		logger.ExitMethodWithError("deductionEngine.ProcessCompletion", err, "sourceID", sourceID)
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	outcome.FeeBasis = src.basis
	outcome.RatePercent = rate
	outcome.FeeComputed = fee

	applied, err := e.walletRepo.ApplyDeduction(ctx, &repository.DeductionRequest{
		SellerCode:    src.sellerCode,
		ReferenceType: refType,
		ReferenceID:   sourceID,
		Fee:           fee,
		Description:   src.description,
	})
	if err != nil {
		// Wallet missing or inactive leaves the source retryable; the
		// reconciliation job picks it up once the wallet is fixed.
		logger.ExitMethodWithError("deductionEngine.ProcessCompletion", err,
			"refType", refType, "sourceID", sourceID, "sellerCode", src.sellerCode)
		return nil, err
	}

	outcome.AmountDebited = applied.Amount
	outcome.NewBalance = applied.NewBalance
	outcome.TransactionID = applied.TransactionID
	if applied.AlreadyApplied {
		outcome.Result = domain.DeductionAlreadyApplied
	} else {
		outcome.Result = domain.DeductionApplied
		e.notifySeller(ctx, src, outcome)
	}

	logger.ExitMethod("deductionEngine.ProcessCompletion",
		"result", outcome.Result, "sourceID", sourceID,
		"amount", outcome.AmountDebited, "newBalance", outcome.NewBalance)
	return outcome, nil
}

func (e *deductionEngine) resolveSource(ctx context.Context, refType domain.WalletReferenceType, sourceID int32) (*completionSource, error) {
	switch refType {
	case domain.WalletReferenceTypeOrder:
		order, err := e.orderRepo.GetByID(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		return &completionSource{
			sellerCode:  order.SellerCode,
			basis:       order.FeeBasis(),
			completed:   order.Status == domain.OrderStatusCompleted,
			processed:   order.DeductionProcessed,
			description: fmt.Sprintf("Platform fee deduction for order #%d", order.ID),
		}, nil

	case domain.WalletReferenceTypeTrade:
		trade, err := e.tradeRepo.GetByID(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		// The fee basis is the seller's own product price. Buyer-offered item
		// values and the cash component are not platform revenue.
		product, err := e.productRepo.GetByID(ctx, trade.ProductID)
		if err != nil {
			return nil, err
		}
		return &completionSource{
			sellerCode:  trade.SellerCode,
			basis:       product.Price,
			completed:   trade.Status == domain.TradeStatusCompleted,
			processed:   trade.DeductionProcessed,
			description: fmt.Sprintf("Platform fee deduction for trade #%d", trade.ID),
		}, nil

	default:
		return nil, fmt.Errorf("%w: reference type %q cannot trigger a deduction", domain.ErrValidation, refType)
	}
}

// currentRate reads the deduction percentage through the settings store on
// every call. Absent or malformed values fall back to the configured default.
func (e *deductionEngine) currentRate(ctx context.Context) decimal.Decimal {
	value, err := e.settingRepo.Get(ctx, DeductionRateSettingKey)
	if err != nil {
		return e.defaultRate
	}
	rate, err := decimal.NewFromString(value)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		logger.Warn("Ignoring invalid deduction rate setting", "value", value)
		return e.defaultRate
	}
	return rate
}

// notifySeller is fire-and-forget; a failed notification never affects the
// financial outcome.
func (e *deductionEngine) notifySeller(ctx context.Context, src *completionSource, outcome *domain.DeductionOutcome) {
	seller, err := e.userRepo.GetBySellerCode(ctx, src.sellerCode)
	if err != nil {
		logger.Warn("Could not resolve seller for deduction notification", "sellerCode", src.sellerCode, "error", err)
		return
	}

	if err := e.emailSvc.SendFeeDeductionNotification(ctx, seller.Email, seller.Name,
		src.description, outcome.AmountDebited, outcome.NewBalance); err != nil {
		logger.Warn("Fee deduction email failed", "sellerCode", src.sellerCode, "error", err)
	}

	note := &domain.Notification{
		UserID:  seller.ID,
		Title:   "Platform Fee Deducted",
		Message: fmt.Sprintf("%s: ₱%s deducted, new balance ₱%s", src.description, outcome.AmountDebited, outcome.NewBalance),
		Attributes: map[string]string{
			"type":           "FEE_DEDUCTION",
			"reference_type": string(outcome.ReferenceType),
			"reference_id":   fmt.Sprintf("%d", outcome.ReferenceID),
			"transaction_id": outcome.TransactionID,
		},
	}
	if err := e.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Fee deduction notification failed", "sellerCode", src.sellerCode, "error", err)
	}
}
