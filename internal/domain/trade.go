package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "PENDING"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusRejected  TradeStatus = "REJECTED"
	TradeStatusCompleted TradeStatus = "COMPLETED"
	TradeStatusCanceled  TradeStatus = "CANCELED"
)

// TradeAction is a user-initiated move on a trade negotiation.
type TradeAction string

const (
	TradeActionAccept   TradeAction = "ACCEPT"
	TradeActionReject   TradeAction = "REJECT"
	TradeActionCancel   TradeAction = "CANCEL"
	TradeActionComplete TradeAction = "COMPLETE"
)

// TradeActor identifies which side of the negotiation acts.
type TradeActor string

const (
	TradeActorBuyer  TradeActor = "BUYER"
	TradeActorSeller TradeActor = "SELLER"
)

// TradeTransaction is a barter negotiation over a seller's product. The buyer
// offers items plus an optional cash component; only the seller's product
// price ever enters the platform fee basis.
type TradeTransaction struct {
	ID             int32           `json:"id"`
	BuyerID        int32           `json:"buyer_id"`
	SellerID       int32           `json:"seller_id"`
	SellerCode     string          `json:"seller_code"`
	ProductID      int32           `json:"product_id"`
	AdditionalCash decimal.Decimal `json:"additional_cash"`
	MeetupLocation string          `json:"meetup_location"`
	MeetupSchedule *time.Time      `json:"meetup_schedule,omitempty"`
	Status         TradeStatus     `json:"status"`
	OfferedItems   []OfferedItem   `json:"offered_items,omitempty"`
	// DeductionProcessed flips true only in the deduction transaction itself.
	DeductionProcessed bool       `json:"wallet_deduction_processed"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
	CreatedOn          string     `json:"created_on"`
	UpdatedOn          string     `json:"updated_on"`
}

// OfferedItem is one buyer-side item in a trade. Every item carries at least
// one image reference; edits must keep the list non-empty.
type OfferedItem struct {
	ID             int32           `json:"id"`
	TradeID        int32           `json:"trade_id"`
	Name           string          `json:"name"`
	Quantity       int32           `json:"quantity"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Condition      string          `json:"condition"`
	Images         []string        `json:"images"`
}

// IsTerminal reports whether the trade reached a state with no further moves.
func (s TradeStatus) IsTerminal() bool {
	return s == TradeStatusCompleted || s == TradeStatusRejected || s == TradeStatusCanceled
}

type tradeTransition struct {
	from   TradeStatus
	action TradeAction
}

type tradeTransitionRule struct {
	to    TradeStatus
	actor TradeActor
}

// The full transition table. Anything absent is an invalid transition.
var tradeTransitions = map[tradeTransition]tradeTransitionRule{
	{TradeStatusPending, TradeActionAccept}:    {TradeStatusAccepted, TradeActorSeller},
	{TradeStatusPending, TradeActionReject}:    {TradeStatusRejected, TradeActorSeller},
	{TradeStatusPending, TradeActionCancel}:    {TradeStatusCanceled, TradeActorBuyer},
	{TradeStatusAccepted, TradeActionCancel}:   {TradeStatusCanceled, TradeActorBuyer},
	{TradeStatusAccepted, TradeActionComplete}: {TradeStatusCompleted, TradeActorSeller},
}

// ResolveTransition returns the target status for (current status, action,
// actor). ErrInvalidTransition when the move is not in the table,
// ErrUnauthorized when it is but the wrong side is acting.
func (t *TradeTransaction) ResolveTransition(action TradeAction, actor TradeActor) (TradeStatus, error) {
	rule, ok := tradeTransitions[tradeTransition{t.Status, action}]
	if !ok {
		return t.Status, ErrInvalidTransition
	}
	if rule.actor != actor {
		return t.Status, ErrUnauthorized
	}
	return rule.to, nil
}

// ActorFor maps a user id onto a side of this trade.
func (t *TradeTransaction) ActorFor(userID int32) (TradeActor, bool) {
	switch userID {
	case t.BuyerID:
		return TradeActorBuyer, true
	case t.SellerID:
		return TradeActorSeller, true
	}
	return "", false
}
