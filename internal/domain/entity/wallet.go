package entity

import (
	"time"
)

// Wallet holds a user's coin balance. Balances are whole coins and never go
// negative; every mutation happens through the ledger primitive inside an
// atomic unit and leaves a WalletEntry behind.
type Wallet struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Balance   int64     `json:"balance" firestore:"balance"`
	Status    string    `json:"status" firestore:"status"` // active, suspended
	LastTxnAt time.Time `json:"last_txn_at" firestore:"lastTxnAt"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// WalletEntry kinds, one per coin movement source.
const (
	EntryDeposit  = "deposit"  // admin-approved deposit credit
	EntryWithdraw = "withdraw" // debit at withdrawal request time
	EntryHold     = "hold"     // buyer debit at reservation
	EntryRefund   = "refund"   // refund on cancellation or rejected withdrawal
	EntryRelease  = "release"  // seller credit on escrow release
	EntryAward    = "award"    // dispute payout to the winning party
)

type WalletEntry struct {
	ID              string    `json:"id" firestore:"id"`
	WalletID        string    `json:"wallet_id" firestore:"walletId"`
	UserID          string    `json:"user_id" firestore:"userId"`
	Type            string    `json:"type" firestore:"type"`
	Amount          int64     `json:"amount" firestore:"amount"`
	PreviousBalance int64     `json:"previous_balance" firestore:"previousBalance"`
	NewBalance      int64     `json:"new_balance" firestore:"newBalance"`
	Reference       string    `json:"reference,omitempty" firestore:"reference,omitempty"`
	Description     string    `json:"description" firestore:"description"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
}

// Request statuses shared by deposits and withdrawals. Transitions are
// one-shot: pending -> approved|rejected.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

type DepositRequest struct {
	ID          string     `json:"id" firestore:"id"`
	UserID      string     `json:"user_id" firestore:"userId"`
	WalletID    string     `json:"wallet_id" firestore:"walletId"`
	Amount      int64      `json:"amount" firestore:"amount"`
	Status      string     `json:"status" firestore:"status"`
	AdminNotes  string     `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	ProcessedBy string     `json:"processed_by,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
}

type WithdrawRequest struct {
	ID          string `json:"id" firestore:"id"`
	UserID      string `json:"user_id" firestore:"userId"`
	WalletID    string `json:"wallet_id" firestore:"walletId"`
	Amount      int64  `json:"amount" firestore:"amount"`
	Destination string `json:"destination" firestore:"destination"`

	// Flagged marks requests exceeding 80% of the balance at request time.
	// Flagging never blocks the request, it only queues it for review.
	Flagged bool `json:"flagged" firestore:"flagged"`

	Status      string     `json:"status" firestore:"status"`
	AdminNotes  string     `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	ProcessedBy string     `json:"processed_by,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`

	PayoutBatchID string `json:"payout_batch_id,omitempty" firestore:"payoutBatchId,omitempty"`
	PayoutStatus  string `json:"payout_status,omitempty" firestore:"payoutStatus,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
