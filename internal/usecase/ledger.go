package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
)

// adjustBalance is the single primitive through which coin balances change.
// It runs inside an atomic unit, rejects any movement that would drive the
// balance negative before writing anything, and records a wallet entry for
// the movement. Callers pass a negative delta for debits.
func adjustBalance(ops repository.Ops, userID string, delta int64, kind string, reference string, description string) (*entity.Wallet, error) {
	wallet, err := ops.GetWallet(userID)
	if err != nil {
		return nil, err
	}

	newBalance := wallet.Balance + delta
	if newBalance < 0 {
		return nil, errors.InsufficientFunds(
			fmt.Sprintf("Balance %d is less than required %d", wallet.Balance, -delta))
	}

	now := time.Now()
	previous := wallet.Balance
	wallet.Balance = newBalance
	wallet.LastTxnAt = now
	wallet.UpdatedAt = now

	if err := ops.PutWallet(wallet); err != nil {
		return nil, err
	}

	entry := &entity.WalletEntry{
		ID:              uuid.New().String(),
		WalletID:        wallet.ID,
		UserID:          userID,
		Type:            kind,
		Amount:          delta,
		PreviousBalance: previous,
		NewBalance:      newBalance,
		Reference:       reference,
		Description:     description,
		CreatedAt:       now,
	}
	if err := ops.PutWalletEntry(entry); err != nil {
		return nil, err
	}

	return wallet, nil
}
