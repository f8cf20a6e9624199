package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/logger"
	"campustrade-backend/internal/repository"
)

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	engine    DeductionEngine
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	engine DeductionEngine,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		engine:    engine,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, buyerID int32, sellerCode string, items []domain.OrderItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one line item", domain.ErrValidation)
	}
	subtotal := decimal.Zero
	for i := range items {
		if items[i].Quantity < 1 {
			return nil, fmt.Errorf("%w: line item quantity must be at least 1", domain.ErrValidation)
		}
		if items[i].Price.IsNegative() {
			return nil, fmt.Errorf("%w: line item price must not be negative", domain.ErrValidation)
		}
		subtotal = subtotal.Add(items[i].Price.Mul(decimal.NewFromInt32(items[i].Quantity)))
	}

	if _, err := s.userRepo.GetBySellerCode(ctx, sellerCode); err != nil {
		return nil, fmt.Errorf("%w: unknown seller %q", domain.ErrValidation, sellerCode)
	}

	order := &domain.Order{
		BuyerID:    buyerID,
		SellerCode: sellerCode,
		Items:      items,
		Subtotal:   subtotal,
		Status:     domain.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	logger.Info("Order created", "orderID", order.ID, "buyerID", buyerID, "subtotal", subtotal)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID {
		actor, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || actor.SellerCode != order.SellerCode {
			return nil, domain.ErrUnauthorized
		}
	}
	return order, nil
}

// UpdateOrderStatus drives the seller-side order lifecycle. A transition into
// COMPLETED is the sole deduction trigger; the guarded update means a re-save
// with an unchanged status never fires the engine again.
func (s *orderService) UpdateOrderStatus(ctx context.Context, actorID, orderID int32, next domain.OrderStatus) (*domain.Order, *domain.DeductionOutcome, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	isSeller := actor.SellerCode != "" && actor.SellerCode == order.SellerCode
	isBuyer := order.BuyerID == actorID
	switch {
	case next == domain.OrderStatusCancelled:
		// Either party may cancel a pending order.
		if !isSeller && !isBuyer {
			return nil, nil, domain.ErrUnauthorized
		}
	default:
		if !isSeller {
			return nil, nil, domain.ErrUnauthorized
		}
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, next)
	}

	changed, err := s.orderRepo.TransitionStatus(ctx, orderID, order.Status, next)
	if err != nil {
		return nil, nil, err
	}
	if !changed {
		return nil, nil, fmt.Errorf("%w: order status changed concurrently", domain.ErrInvalidTransition)
	}
	order.Status = next

	if next != domain.OrderStatusCompleted {
		return order, nil, nil
	}
	if order.DeductionProcessed {
		// The engine would short-circuit on the flag anyway.
		return order, nil, nil
	}

	outcome, err := s.engine.ProcessCompletion(ctx, domain.WalletReferenceTypeOrder, order.ID)
	if err != nil {
		logger.Warn("Order completed but fee deduction is pending",
			"orderID", order.ID, "sellerCode", order.SellerCode, "error", err)
		return order, nil, fmt.Errorf("order completed but fee deduction is pending: %w", err)
	}
	return order, outcome, nil
}

func (s *orderService) ListOrdersByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.orderRepo.ListByBuyer(ctx, buyerID, page, pageSize)
}

func (s *orderService) ListOrdersBySeller(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.Order, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.orderRepo.ListBySeller(ctx, sellerCode, page, pageSize)
}
