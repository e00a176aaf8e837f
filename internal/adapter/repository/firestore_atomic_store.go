package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
)

const (
	listingsCollection         = "listings"
	tradesCollection           = "trades"
	tradeLogsCollection        = "trade_logs"
	usersCollection            = "users"
	walletsCollection          = "wallets"
	walletEntriesCollection    = "wallet_entries"
	depositRequestsCollection  = "deposit_requests"
	withdrawRequestsCollection = "withdraw_requests"
)

type firestoreAtomicStore struct {
	client *firestore.Client
}

func NewFirestoreAtomicStore(client *firestore.Client) repository.AtomicStore {
	return &firestoreAtomicStore{client: client}
}

func (s *firestoreAtomicStore) Atomic(ctx context.Context, fn func(ops repository.Ops) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&firestoreOps{client: s.client, tx: tx})
	})
}

// firestoreOps adapts a Firestore transaction to repository.Ops. Writes are
// buffered by the transaction and commit together; reads are serialized
// against concurrent transactions touching the same documents.
type firestoreOps struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (o *firestoreOps) getDoc(collection, id, resource string, out interface{}) error {
	doc, err := o.tx.Get(o.client.Collection(collection).Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound(resource, err)
		}
		return errors.Internal("Failed to get "+resource, err)
	}
	if err := doc.DataTo(out); err != nil {
		return errors.Internal("Failed to parse "+resource+" data", err)
	}
	return nil
}

func (o *firestoreOps) putDoc(collection, id, resource string, data interface{}) error {
	if err := o.tx.Set(o.client.Collection(collection).Doc(id), data); err != nil {
		return errors.Internal("Failed to write "+resource, err)
	}
	return nil
}

func (o *firestoreOps) GetListing(id string) (*entity.Listing, error) {
	var listing entity.Listing
	if err := o.getDoc(listingsCollection, id, "Listing", &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (o *firestoreOps) PutListing(listing *entity.Listing) error {
	return o.putDoc(listingsCollection, listing.ID, "listing", listing)
}

func (o *firestoreOps) GetTrade(id string) (*entity.TradeTransaction, error) {
	var trade entity.TradeTransaction
	if err := o.getDoc(tradesCollection, id, "Trade", &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

func (o *firestoreOps) GetActiveTradeByListingID(listingID string) (*entity.TradeTransaction, error) {
	query := o.client.Collection(tradesCollection).
		Where("listingId", "==", listingID).
		Where("status", "in", []string{entity.TradeTxnPending, entity.TradeTxnPendingRelease, entity.TradeTxnDisputed}).
		Limit(1)

	iter := o.tx.Documents(query)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("Failed to query active trade", err)
	}

	var trade entity.TradeTransaction
	if err := doc.DataTo(&trade); err != nil {
		return nil, errors.Internal("Failed to parse trade data", err)
	}
	return &trade, nil
}

func (o *firestoreOps) PutTrade(trade *entity.TradeTransaction) error {
	return o.putDoc(tradesCollection, trade.ID, "trade", trade)
}

func (o *firestoreOps) GetWallet(userID string) (*entity.Wallet, error) {
	// Wallet documents are keyed by user ID so every ledger touch is a
	// direct lookup inside the transaction.
	var wallet entity.Wallet
	if err := o.getDoc(walletsCollection, userID, "Wallet", &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (o *firestoreOps) PutWallet(wallet *entity.Wallet) error {
	return o.putDoc(walletsCollection, wallet.UserID, "wallet", wallet)
}

func (o *firestoreOps) PutWalletEntry(entry *entity.WalletEntry) error {
	return o.putDoc(walletEntriesCollection, entry.ID, "wallet entry", entry)
}

func (o *firestoreOps) GetDepositRequest(id string) (*entity.DepositRequest, error) {
	var request entity.DepositRequest
	if err := o.getDoc(depositRequestsCollection, id, "Deposit request", &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (o *firestoreOps) PutDepositRequest(request *entity.DepositRequest) error {
	return o.putDoc(depositRequestsCollection, request.ID, "deposit request", request)
}

func (o *firestoreOps) GetWithdrawRequest(id string) (*entity.WithdrawRequest, error) {
	var request entity.WithdrawRequest
	if err := o.getDoc(withdrawRequestsCollection, id, "Withdraw request", &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (o *firestoreOps) PutWithdrawRequest(request *entity.WithdrawRequest) error {
	return o.putDoc(withdrawRequestsCollection, request.ID, "withdraw request", request)
}
