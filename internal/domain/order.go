package domain

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusAccepted   OrderStatus = "ACCEPTED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type Order struct {
	ID         int32           `json:"id"`
	BuyerID    int32           `json:"buyer_id"`
	SellerCode string          `json:"seller_code"`
	Items      []OrderItem     `json:"items,omitempty"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Status     OrderStatus     `json:"status"`
	// DeductionProcessed flips to true only inside the same transaction that
	// writes the fee ledger row, so a completed order never bills twice.
	DeductionProcessed bool   `json:"wallet_deduction_processed"`
	CreatedOn          string `json:"created_on"`
	UpdatedOn          string `json:"updated_on"`
}

type OrderItem struct {
	ID          int32           `json:"id"`
	OrderID     int32           `json:"order_id"`
	ProductID   int32           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int32           `json:"quantity"`
}

// FeeBasis is the amount the platform fee is computed against: the sum of
// line items, falling back to the stored subtotal when no items were loaded.
func (o *Order) FeeBasis() decimal.Decimal {
	if len(o.Items) == 0 {
		return o.Subtotal
	}
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total
}

// IsTerminal reports whether no further status transition is meaningful.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:   {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCompleted},
	OrderStatusDelivered:  {OrderStatusCompleted},
}

// CanTransitionTo reports whether the seller-driven lifecycle permits moving
// from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
