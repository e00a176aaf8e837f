package entity

import (
	"time"
)

// Listing trade statuses. Available and TradeStatus move together:
// Available is true iff TradeStatus == TradeStatusAvailable.
const (
	TradeStatusAvailable      = "available"
	TradeStatusPending        = "pending"
	TradeStatusPendingRelease = "pending_release"
	TradeStatusCompleted      = "completed"
	TradeStatusCancelled      = "cancelled"
)

type Listing struct {
	ID          string `json:"id" firestore:"id"`
	SellerID    string `json:"seller_id" firestore:"sellerId"`
	GameTitle   string `json:"game_title" firestore:"gameTitle"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	Price       int64  `json:"price" firestore:"price"`

	Available   bool   `json:"available" firestore:"available"`
	TradeStatus string `json:"trade_status" firestore:"tradeStatus"`
	BuyerID     string `json:"buyer_id,omitempty" firestore:"buyerId,omitempty"`

	// User IDs of parties that have confirmed the trade. A party appears
	// at most once.
	TradeConfirmations []string `json:"trade_confirmations,omitempty" firestore:"tradeConfirmations,omitempty"`

	CancellationNote string `json:"cancellation_note,omitempty" firestore:"cancellationNote,omitempty"`

	PurchasedAt      *time.Time `json:"purchased_at,omitempty" firestore:"purchasedAt,omitempty"`
	ReleaseAt        *time.Time `json:"release_at,omitempty" firestore:"releaseAt,omitempty"`
	TradeCompletedAt *time.Time `json:"trade_completed_at,omitempty" firestore:"tradeCompletedAt,omitempty"`

	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}

// IsParty reports whether userID is the seller or the assigned buyer.
func (l *Listing) IsParty(userID string) bool {
	return userID == l.SellerID || (l.BuyerID != "" && userID == l.BuyerID)
}

func (l *Listing) HasConfirmed(userID string) bool {
	for _, id := range l.TradeConfirmations {
		if id == userID {
			return true
		}
	}
	return false
}

// MutuallyConfirmed reports whether both the seller and the buyer have
// confirmed the trade.
func (l *Listing) MutuallyConfirmed() bool {
	return l.BuyerID != "" && l.HasConfirmed(l.SellerID) && l.HasConfirmed(l.BuyerID)
}

// TradeInProgress reports whether the listing has a non-terminal trade and
// therefore must not be deleted or edited.
func (l *Listing) TradeInProgress() bool {
	return l.TradeStatus == TradeStatusPending || l.TradeStatus == TradeStatusPendingRelease
}
