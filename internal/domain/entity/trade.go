package entity

import (
	"time"
)

// TradeTransaction statuses. The record is created when a buyer reserves a
// listing and is the durable escrow ledger for that trade; it survives later
// edits to the listing. Terminal states are completed and cancelled.
const (
	TradeTxnPending        = "pending"
	TradeTxnPendingRelease = "pending_release"
	TradeTxnCompleted      = "completed"
	TradeTxnCancelled      = "cancelled"
	TradeTxnDisputed       = "disputed"
)

type TradeTransaction struct {
	ID        string `json:"id" firestore:"id"`
	ListingID string `json:"listing_id" firestore:"listingId"`
	BuyerID   string `json:"buyer_id" firestore:"buyerId"`
	SellerID  string `json:"seller_id" firestore:"sellerId"`
	Amount    int64  `json:"amount" firestore:"amount"`
	Status    string `json:"status" firestore:"status"`

	// ReleaseAt is set when the trade enters pending_release and cleared by
	// release, cancellation, or an open dispute. The sweep only picks up
	// trades with a non-nil ReleaseAt in the past.
	ReleaseAt *time.Time `json:"release_at,omitempty" firestore:"releaseAt,omitempty"`

	Dispute Dispute `json:"dispute" firestore:"dispute"`

	CancellationNote string `json:"cancellation_note,omitempty" firestore:"cancellationNote,omitempty"`

	AdminHandledBy string     `json:"admin_handled_by,omitempty" firestore:"adminHandledBy,omitempty"`
	AdminHandledAt *time.Time `json:"admin_handled_at,omitempty" firestore:"adminHandledAt,omitempty"`

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	CompletedAt *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`
}

func (t *TradeTransaction) IsParty(userID string) bool {
	return userID == t.BuyerID || userID == t.SellerID
}

// Disputable reports whether a party may still file a dispute report.
func (t *TradeTransaction) Disputable() bool {
	switch t.Status {
	case TradeTxnPending, TradeTxnPendingRelease, TradeTxnDisputed:
		return true
	}
	return false
}

// TradeLog is an append-only audit entry for a trade transaction. Logs live
// in their own collection and are written after the state change commits.
type TradeLog struct {
	ID        string    `json:"id" firestore:"id"`
	TradeID   string    `json:"trade_id" firestore:"tradeId"`
	Message   string    `json:"message" firestore:"message"`
	CreatedBy string    `json:"created_by" firestore:"createdBy"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
