package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/logger"
	"campustrade-backend/internal/repository"
)

type tradeService struct {
	tradeRepo   repository.TradeRepository
	productRepo repository.ProductRepository
	walletRepo  repository.WalletRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
	engine      DeductionEngine
}

func NewTradeService(
	tradeRepo repository.TradeRepository,
	productRepo repository.ProductRepository,
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	engine DeductionEngine,
) TradeService {
	return &tradeService{
		tradeRepo:   tradeRepo,
		productRepo: productRepo,
		walletRepo:  walletRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
		engine:      engine,
	}
}

func (s *tradeService) CreateTrade(ctx context.Context, buyerID int32, input *CreateTradeInput) (*domain.TradeTransaction, error) {
	if len(input.OfferedItems) == 0 {
		return nil, fmt.Errorf("%w: a trade offer needs at least one offered item", domain.ErrValidation)
	}
	for i := range input.OfferedItems {
		if err := validateOfferedItem(&input.OfferedItems[i]); err != nil {
			return nil, err
		}
	}
	if input.AdditionalCash.IsNegative() {
		return nil, fmt.Errorf("%w: additional cash must not be negative", domain.ErrValidation)
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	seller, err := s.userRepo.GetBySellerCode(ctx, product.SellerCode)
	if err != nil {
		return nil, err
	}
	if seller.ID == buyerID {
		return nil, fmt.Errorf("%w: cannot open a trade on your own product", domain.ErrValidation)
	}

	trade := &domain.TradeTransaction{
		BuyerID:        buyerID,
		SellerID:       seller.ID,
		SellerCode:     product.SellerCode,
		ProductID:      product.ID,
		AdditionalCash: input.AdditionalCash,
		MeetupLocation: input.MeetupLocation,
		Status:         domain.TradeStatusPending,
		OfferedItems:   input.OfferedItems,
	}
	if input.MeetupSchedule != "" {
		schedule, err := time.Parse(time.RFC3339, input.MeetupSchedule)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid meetup schedule: %v", domain.ErrValidation, err)
		}
		trade.MeetupSchedule = &schedule
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, err
	}

	// A seller's first trade may predate their wallet; make sure a pending
	// one exists so activation is the only missing step at completion time.
	if _, err := s.walletRepo.GetBySellerCode(ctx, trade.SellerCode); errors.Is(err, domain.ErrWalletNotFound) {
		wallet := &domain.Wallet{SellerCode: trade.SellerCode, Status: domain.WalletStatusPending}
		if err := s.walletRepo.Create(ctx, wallet); err != nil && !errors.Is(err, domain.ErrWalletExists) {
			logger.Warn("Could not provision pending wallet", "sellerCode", trade.SellerCode, "error", err)
		}
	}

	s.notifyCounterparty(ctx, trade, seller.ID, "New Trade Offer",
		fmt.Sprintf("You received a trade offer on %s", product.Name), "TRADE_OFFERED")

	return trade, nil
}

func (s *tradeService) GetTrade(ctx context.Context, userID, tradeID int32) (*domain.TradeTransaction, error) {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if _, ok := trade.ActorFor(userID); !ok {
		return nil, domain.ErrUnauthorized
	}
	return trade, nil
}

func (s *tradeService) ListTrades(ctx context.Context, userID int32, page, pageSize int32) ([]domain.TradeTransaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.tradeRepo.ListByUser(ctx, userID, page, pageSize)
}

func (s *tradeService) AcceptTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, error) {
	return s.transition(ctx, actorID, tradeID, domain.TradeActionAccept)
}

func (s *tradeService) RejectTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, error) {
	return s.transition(ctx, actorID, tradeID, domain.TradeActionReject)
}

func (s *tradeService) CancelTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, error) {
	return s.transition(ctx, actorID, tradeID, domain.TradeActionCancel)
}

// CompleteTrade is the sole trade-side deduction trigger. The engine is
// invoked only when the guarded update actually moved ACCEPTED to COMPLETED,
// never on a re-save. A failed deduction does not roll back the completion;
// the reconciliation job retries it.
func (s *tradeService) CompleteTrade(ctx context.Context, actorID, tradeID int32) (*domain.TradeTransaction, *domain.DeductionOutcome, error) {
	trade, err := s.transition(ctx, actorID, tradeID, domain.TradeActionComplete)
	if err != nil {
		return nil, nil, err
	}

	outcome, err := s.engine.ProcessCompletion(ctx, domain.WalletReferenceTypeTrade, trade.ID)
	if err != nil {
		logger.Warn("Trade completed but fee deduction is pending",
			"tradeID", trade.ID, "sellerCode", trade.SellerCode, "error", err)
		return trade, nil, fmt.Errorf("trade completed but fee deduction is pending: %w", err)
	}
	return trade, outcome, nil
}

func (s *tradeService) transition(ctx context.Context, actorID, tradeID int32, action domain.TradeAction) (*domain.TradeTransaction, error) {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.DeletedAt != nil {
		return nil, domain.ErrTradeNotFound
	}

	actor, ok := trade.ActorFor(actorID)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	next, err := trade.ResolveTransition(action, actor)
	if err != nil {
		return nil, err
	}

	changed, err := s.tradeRepo.TransitionStatus(ctx, tradeID, trade.Status, next)
	if err != nil {
		return nil, err
	}
	if !changed {
		// A concurrent request won the transition; the guard keeps this one a
		// no-op instead of a double fire.
		return nil, domain.ErrInvalidTransition
	}
	trade.Status = next

	s.notifyTransition(ctx, trade, actor)
	return trade, nil
}

// DeleteTrade tombstones a trade. Only a party to the trade may delete, and
// only once it reached a terminal state.
func (s *tradeService) DeleteTrade(ctx context.Context, actorID, tradeID int32) error {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.DeletedAt != nil {
		return domain.ErrTradeNotFound
	}
	if _, ok := trade.ActorFor(actorID); !ok {
		return domain.ErrUnauthorized
	}
	if !trade.Status.IsTerminal() {
		return fmt.Errorf("%w: trade in status %s cannot be deleted", domain.ErrInvalidTransition, trade.Status)
	}
	return s.tradeRepo.SoftDelete(ctx, tradeID)
}

// UpdateOfferedItem re-validates the never-empty images invariant on every edit.
func (s *tradeService) UpdateOfferedItem(ctx context.Context, actorID int32, item *domain.OfferedItem) error {
	existing, err := s.tradeRepo.GetOfferedItem(ctx, item.ID)
	if err != nil {
		return err
	}
	trade, err := s.tradeRepo.GetByID(ctx, existing.TradeID)
	if err != nil {
		return err
	}
	if trade.BuyerID != actorID {
		return domain.ErrUnauthorized
	}
	if trade.Status != domain.TradeStatusPending {
		return fmt.Errorf("%w: offered items are editable only while the trade is pending", domain.ErrInvalidTransition)
	}
	item.TradeID = existing.TradeID
	if err := validateOfferedItem(item); err != nil {
		return err
	}
	return s.tradeRepo.UpdateOfferedItem(ctx, item)
}

func validateOfferedItem(item *domain.OfferedItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: offered item name is required", domain.ErrValidation)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: offered item quantity must be at least 1", domain.ErrValidation)
	}
	if item.EstimatedValue.IsNegative() {
		return fmt.Errorf("%w: offered item estimated value must not be negative", domain.ErrValidation)
	}
	if len(item.Images) == 0 {
		return fmt.Errorf("%w: offered item needs at least one image", domain.ErrValidation)
	}
	for _, img := range item.Images {
		if img == "" {
			return fmt.Errorf("%w: offered item image reference must not be empty", domain.ErrValidation)
		}
	}
	return nil
}

func (s *tradeService) notifyTransition(ctx context.Context, trade *domain.TradeTransaction, actor domain.TradeActor) {
	// Notify the counterparty of whoever acted.
	recipientID := trade.SellerID
	if actor == domain.TradeActorSeller {
		recipientID = trade.BuyerID
	}

	var title string
	switch trade.Status {
	case domain.TradeStatusAccepted:
		title = "Trade Accepted"
	case domain.TradeStatusRejected:
		title = "Trade Rejected"
	case domain.TradeStatusCanceled:
		title = "Trade Canceled"
	case domain.TradeStatusCompleted:
		title = "Trade Completed"
	default:
		return
	}

	product, err := s.productRepo.GetByID(ctx, trade.ProductID)
	productName := fmt.Sprintf("product #%d", trade.ProductID)
	if err == nil {
		productName = product.Name
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		logger.Warn("Could not resolve trade notification recipient", "tradeID", trade.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendTradeStatusNotification(ctx, recipient.Email, recipient.Name, productName, trade.Status); err != nil {
		logger.Warn("Trade status email failed", "tradeID", trade.ID, "error", err)
	}

	s.notifyCounterparty(ctx, trade, recipientID, title,
		fmt.Sprintf("Trade on %s is now %s", productName, trade.Status), "TRADE_"+string(trade.Status))
}

func (s *tradeService) notifyCounterparty(ctx context.Context, trade *domain.TradeTransaction, recipientID int32, title, message, noteType string) {
	note := &domain.Notification{
		UserID:  recipientID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":     noteType,
			"trade_id": fmt.Sprintf("%d", trade.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Trade notification failed", "tradeID", trade.ID, "error", err)
	}
}
