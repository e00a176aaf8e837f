package repository

import (
	"context"

	"tradevault/internal/domain/entity"
)

// Ops is the view of the store inside one atomic unit. All reads must happen
// before the first write (the Firestore transaction rule); implementations
// may buffer writes until commit.
//
// Get methods return a NOT_FOUND AppError when the record does not exist,
// except GetActiveTradeByListingID which returns (nil, nil) when the listing
// has no active trade.
type Ops interface {
	GetListing(id string) (*entity.Listing, error)
	PutListing(listing *entity.Listing) error

	GetTrade(id string) (*entity.TradeTransaction, error)
	GetActiveTradeByListingID(listingID string) (*entity.TradeTransaction, error)
	PutTrade(trade *entity.TradeTransaction) error

	GetWallet(userID string) (*entity.Wallet, error)
	PutWallet(wallet *entity.Wallet) error
	PutWalletEntry(entry *entity.WalletEntry) error

	GetDepositRequest(id string) (*entity.DepositRequest, error)
	PutDepositRequest(request *entity.DepositRequest) error

	GetWithdrawRequest(id string) (*entity.WithdrawRequest, error)
	PutWithdrawRequest(request *entity.WithdrawRequest) error
}

// AtomicStore runs fn as a single serializable unit: either every write in
// fn commits, or none do. Concurrent units touching the same records do not
// interleave; fn may be retried on contention and must be side-effect free
// outside of ops.
type AtomicStore interface {
	Atomic(ctx context.Context, fn func(ops Ops) error) error
}
