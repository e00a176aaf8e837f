package repository

import (
	"context"

	"tradevault/internal/domain/entity"
)

// WalletRepository covers wallet reads and request bookkeeping. Balance
// mutations never go through here; they run inside AtomicStore units via the
// ledger primitive.
type WalletRepository interface {
	CreateWallet(ctx context.Context, wallet *entity.Wallet) error
	GetWalletByUserID(ctx context.Context, userID string) (*entity.Wallet, error)
	ListEntriesByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletEntry, error)

	CreateDepositRequest(ctx context.Context, request *entity.DepositRequest) error
	ListDepositRequestsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.DepositRequest, error)
	ListPendingDepositRequests(ctx context.Context, limit, offset int) ([]*entity.DepositRequest, error)

	ListWithdrawRequestsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WithdrawRequest, error)
	ListPendingWithdrawRequests(ctx context.Context, limit, offset int) ([]*entity.WithdrawRequest, error)
	UpdateWithdrawRequest(ctx context.Context, request *entity.WithdrawRequest) error
}
