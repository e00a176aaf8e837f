package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/internal/domain/service"
	"tradevault/pkg/errors"
	"tradevault/pkg/logger"
)

// WalletUseCase covers wallet reads plus the admin-mediated deposit and
// withdrawal flows. Deposits credit only on admin approval; withdrawals
// debit up front so the requested coins can never be double-spent while the
// request sits in the queue.
type WalletUseCase struct {
	store      repository.AtomicStore
	walletRepo repository.WalletRepository
	payout     service.PayoutService
	notifier   Notifier
}

func NewWalletUseCase(
	store repository.AtomicStore,
	walletRepo repository.WalletRepository,
	payout service.PayoutService,
	notifier Notifier,
) *WalletUseCase {
	return &WalletUseCase{
		store:      store,
		walletRepo: walletRepo,
		payout:     payout,
		notifier:   notifier,
	}
}

func (uc *WalletUseCase) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	return uc.walletRepo.GetWalletByUserID(ctx, userID)
}

func (uc *WalletUseCase) ListEntries(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletEntry, error) {
	return uc.walletRepo.ListEntriesByUserID(ctx, userID, limit, offset)
}

// CreateDepositRequest queues a deposit for admin review. No coins move
// until an admin approves it.
func (uc *WalletUseCase) CreateDepositRequest(ctx context.Context, userID string, amount int64) (*entity.DepositRequest, error) {
	if amount <= 0 {
		return nil, errors.BadRequest("Deposit amount must be positive", nil)
	}

	wallet, err := uc.walletRepo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request := &entity.DepositRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		WalletID:  wallet.ID,
		Amount:    amount,
		Status:    entity.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.walletRepo.CreateDepositRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ProcessDepositRequest approves or rejects a pending deposit. Approval
// credits the wallet in the same atomic unit that flips the request status,
// so a request can never be paid twice.
func (uc *WalletUseCase) ProcessDepositRequest(ctx context.Context, adminID, requestID string, approve bool, adminNotes string) (*entity.DepositRequest, error) {
	var request *entity.DepositRequest

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		request, err = ops.GetDepositRequest(requestID)
		if err != nil {
			return err
		}
		if request.Status != entity.RequestPending {
			return errors.AlreadyProcessed("Deposit request")
		}

		if approve {
			if _, err := adjustBalance(ops, request.UserID, request.Amount, entity.EntryDeposit, request.ID,
				"Approved deposit"); err != nil {
				return err
			}
			request.Status = entity.RequestApproved
		} else {
			request.Status = entity.RequestRejected
		}

		now := time.Now()
		request.AdminNotes = adminNotes
		request.ProcessedBy = adminID
		request.ProcessedAt = &now
		request.UpdatedAt = now
		return ops.PutDepositRequest(request)
	})
	if err != nil {
		return nil, err
	}

	uc.notify(request.UserID, "deposit_processed", map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
		"amount":     request.Amount,
	})
	return request, nil
}

func (uc *WalletUseCase) ListDepositRequests(ctx context.Context, userID string, limit, offset int) ([]*entity.DepositRequest, error) {
	return uc.walletRepo.ListDepositRequestsByUserID(ctx, userID, limit, offset)
}

func (uc *WalletUseCase) ListPendingDepositRequests(ctx context.Context, limit, offset int) ([]*entity.DepositRequest, error) {
	return uc.walletRepo.ListPendingDepositRequests(ctx, limit, offset)
}

// CreateWithdrawRequest debits the wallet immediately and queues the request
// for admin review. Requests above 80% of the balance at request time are
// flagged for closer inspection but still accepted.
func (uc *WalletUseCase) CreateWithdrawRequest(ctx context.Context, userID string, amount int64, destination string) (*entity.WithdrawRequest, error) {
	if amount <= 0 {
		return nil, errors.BadRequest("Withdrawal amount must be positive", nil)
	}
	if destination == "" {
		return nil, errors.BadRequest("Withdrawal destination is required", nil)
	}

	var request *entity.WithdrawRequest

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		wallet, err := ops.GetWallet(userID)
		if err != nil {
			return err
		}

		// amount > 80% of balance, in integer arithmetic.
		flagged := amount*5 > wallet.Balance*4

		requestID := uuid.New().String()
		if _, err := adjustBalance(ops, userID, -amount, entity.EntryWithdraw, requestID,
			"Withdrawal request debit"); err != nil {
			return err
		}

		now := time.Now()
		request = &entity.WithdrawRequest{
			ID:          requestID,
			UserID:      userID,
			WalletID:    wallet.ID,
			Amount:      amount,
			Destination: destination,
			Flagged:     flagged,
			Status:      entity.RequestPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return ops.PutWithdrawRequest(request)
	})
	if err != nil {
		return nil, err
	}

	if request.Flagged {
		logger.Warn("Withdrawal request %s by user %s flagged: amount %d exceeds 80%% of balance", request.ID, userID, amount)
	}
	return request, nil
}

// ProcessWithdrawRequest settles a pending withdrawal. Rejection refunds the
// held amount. Approval commits the status flip first and only then calls
// the external payout, so a payout failure leaves the ledger untouched; the
// request keeps its approved status with a failed payout marker for retry by
// the operations team.
func (uc *WalletUseCase) ProcessWithdrawRequest(ctx context.Context, adminID, requestID string, approve bool, adminNotes string) (*entity.WithdrawRequest, error) {
	var request *entity.WithdrawRequest

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		request, err = ops.GetWithdrawRequest(requestID)
		if err != nil {
			return err
		}
		if request.Status != entity.RequestPending {
			return errors.AlreadyProcessed("Withdraw request")
		}

		if approve {
			request.Status = entity.RequestApproved
		} else {
			if _, err := adjustBalance(ops, request.UserID, request.Amount, entity.EntryRefund, request.ID,
				"Refund of rejected withdrawal"); err != nil {
				return err
			}
			request.Status = entity.RequestRejected
		}

		now := time.Now()
		request.AdminNotes = adminNotes
		request.ProcessedBy = adminID
		request.ProcessedAt = &now
		request.UpdatedAt = now
		return ops.PutWithdrawRequest(request)
	})
	if err != nil {
		return nil, err
	}

	if approve {
		result, payoutErr := uc.payout.Payout(ctx, request.Amount, request.Destination)
		if payoutErr != nil {
			request.PayoutStatus = "failed"
			if err := uc.walletRepo.UpdateWithdrawRequest(ctx, request); err != nil {
				logger.Error("Failed to record payout failure on request %s: %v", request.ID, err)
			}
			return nil, errors.PayoutFailed(payoutErr)
		}
		request.PayoutBatchID = result.BatchID
		request.PayoutStatus = result.Status
		if err := uc.walletRepo.UpdateWithdrawRequest(ctx, request); err != nil {
			logger.Error("Failed to record payout result on request %s: %v", request.ID, err)
		}
	}

	uc.notify(request.UserID, "withdrawal_processed", map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
		"amount":     request.Amount,
	})
	return request, nil
}

func (uc *WalletUseCase) ListWithdrawRequests(ctx context.Context, userID string, limit, offset int) ([]*entity.WithdrawRequest, error) {
	return uc.walletRepo.ListWithdrawRequestsByUserID(ctx, userID, limit, offset)
}

func (uc *WalletUseCase) ListPendingWithdrawRequests(ctx context.Context, limit, offset int) ([]*entity.WithdrawRequest, error) {
	return uc.walletRepo.ListPendingWithdrawRequests(ctx, limit, offset)
}

func (uc *WalletUseCase) notify(userID, event string, payload map[string]interface{}) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.Notify(userID, event, payload)
}

// CreateWallet provisions a zero-balance wallet for a new user.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	now := time.Now()
	wallet := &entity.Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		Balance:   0,
		Status:    "active",
		LastTxnAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.walletRepo.CreateWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to provision wallet: %w", err)
	}
	return wallet, nil
}
