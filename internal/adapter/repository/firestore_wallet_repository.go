package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
)

type firestoreWalletRepository struct {
	client *firestore.Client
}

func NewFirestoreWalletRepository(client *firestore.Client) repository.WalletRepository {
	return &firestoreWalletRepository{client: client}
}

func (r *firestoreWalletRepository) CreateWallet(ctx context.Context, wallet *entity.Wallet) error {
	_, err := r.client.Collection(walletsCollection).Doc(wallet.UserID).Set(ctx, wallet)
	if err != nil {
		return errors.Internal("Failed to create wallet", err)
	}
	return nil
}

func (r *firestoreWalletRepository) GetWalletByUserID(ctx context.Context, userID string) (*entity.Wallet, error) {
	doc, err := r.client.Collection(walletsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Wallet", err)
		}
		return nil, errors.Internal("Failed to get wallet", err)
	}

	var wallet entity.Wallet
	if err := doc.DataTo(&wallet); err != nil {
		return nil, errors.Internal("Failed to parse wallet data", err)
	}
	return &wallet, nil
}

func (r *firestoreWalletRepository) ListEntriesByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletEntry, error) {
	query := r.client.Collection(walletEntriesCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []*entity.WalletEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate wallet entries", err)
		}

		var entry entity.WalletEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, errors.Internal("Failed to parse wallet entry data", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *firestoreWalletRepository) CreateDepositRequest(ctx context.Context, request *entity.DepositRequest) error {
	_, err := r.client.Collection(depositRequestsCollection).Doc(request.ID).Set(ctx, request)
	if err != nil {
		return errors.Internal("Failed to create deposit request", err)
	}
	return nil
}

func (r *firestoreWalletRepository) ListDepositRequestsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.DepositRequest, error) {
	query := r.client.Collection(depositRequestsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	var requests []*entity.DepositRequest
	if err := r.collectDeposits(ctx, query, limit, offset, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *firestoreWalletRepository) ListPendingDepositRequests(ctx context.Context, limit, offset int) ([]*entity.DepositRequest, error) {
	query := r.client.Collection(depositRequestsCollection).
		Where("status", "==", entity.RequestPending).
		OrderBy("createdAt", firestore.Asc)

	var requests []*entity.DepositRequest
	if err := r.collectDeposits(ctx, query, limit, offset, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *firestoreWalletRepository) collectDeposits(ctx context.Context, query firestore.Query, limit, offset int, out *[]*entity.DepositRequest) error {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate deposit requests", err)
		}

		var request entity.DepositRequest
		if err := doc.DataTo(&request); err != nil {
			return errors.Internal("Failed to parse deposit request data", err)
		}
		*out = append(*out, &request)
	}
	return nil
}

func (r *firestoreWalletRepository) ListWithdrawRequestsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WithdrawRequest, error) {
	query := r.client.Collection(withdrawRequestsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	return r.collectWithdraws(ctx, query, limit, offset)
}

func (r *firestoreWalletRepository) ListPendingWithdrawRequests(ctx context.Context, limit, offset int) ([]*entity.WithdrawRequest, error) {
	query := r.client.Collection(withdrawRequestsCollection).
		Where("status", "==", entity.RequestPending).
		OrderBy("createdAt", firestore.Asc)

	return r.collectWithdraws(ctx, query, limit, offset)
}

func (r *firestoreWalletRepository) collectWithdraws(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.WithdrawRequest, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var requests []*entity.WithdrawRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate withdraw requests", err)
		}

		var request entity.WithdrawRequest
		if err := doc.DataTo(&request); err != nil {
			return nil, errors.Internal("Failed to parse withdraw request data", err)
		}
		requests = append(requests, &request)
	}

	return requests, nil
}

func (r *firestoreWalletRepository) UpdateWithdrawRequest(ctx context.Context, request *entity.WithdrawRequest) error {
	request.UpdatedAt = time.Now()

	_, err := r.client.Collection(withdrawRequestsCollection).Doc(request.ID).Set(ctx, request)
	if err != nil {
		return errors.Internal("Failed to update withdraw request", err)
	}
	return nil
}
