package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
	"tradevault/pkg/logger"
)

// EscrowReleaseUseCase pays the seller once the release window has elapsed.
// The sweep is a plain query followed by a per-trade atomic unit that
// re-validates the trade state, so a trade that was disputed or released
// between the query and the unit is skipped safely.
type EscrowReleaseUseCase struct {
	store         repository.AtomicStore
	tradeRepo     repository.TradeRepository
	notifier      Notifier
	sweepInterval time.Duration
	sweepLimit    int
}

func NewEscrowReleaseUseCase(
	store repository.AtomicStore,
	tradeRepo repository.TradeRepository,
	notifier Notifier,
	sweepInterval time.Duration,
	sweepLimit int,
) *EscrowReleaseUseCase {
	if sweepLimit <= 0 {
		sweepLimit = 100
	}
	return &EscrowReleaseUseCase{
		store:         store,
		tradeRepo:     tradeRepo,
		notifier:      notifier,
		sweepInterval: sweepInterval,
		sweepLimit:    sweepLimit,
	}
}

// SweepDueReleases releases every due trade and returns how many were
// released. A failure on one trade is logged and does not stop the sweep.
func (uc *EscrowReleaseUseCase) SweepDueReleases(ctx context.Context) (int, error) {
	due, err := uc.tradeRepo.ListDueForRelease(ctx, time.Now(), uc.sweepLimit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, candidate := range due {
		trade, err := uc.release(ctx, candidate.ID, "")
		if err != nil {
			// NOT_PENDING_RELEASE means someone got there first.
			if !errors.Is(err, "NOT_PENDING_RELEASE") {
				logger.Error("Escrow sweep: release of trade %s failed: %v", candidate.ID, err)
			}
			continue
		}
		released++
		uc.notifyCompleted(trade)
	}
	return released, nil
}

// ReleaseTrade releases one trade on behalf of an admin, subject to the same
// due check as the sweep.
func (uc *EscrowReleaseUseCase) ReleaseTrade(ctx context.Context, adminID, tradeID string) (*entity.TradeTransaction, error) {
	trade, err := uc.release(ctx, tradeID, adminID)
	if err != nil {
		return nil, err
	}
	uc.notifyCompleted(trade)
	return trade, nil
}

// release re-validates and completes the trade inside one atomic unit: the
// trade must still be pending_release with a ReleaseAt in the past, the
// seller is credited the escrowed amount, and both the trade and the listing
// become completed.
func (uc *EscrowReleaseUseCase) release(ctx context.Context, tradeID, adminID string) (*entity.TradeTransaction, error) {
	var trade *entity.TradeTransaction

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		trade, err = ops.GetTrade(tradeID)
		if err != nil {
			return err
		}
		if trade.Status != entity.TradeTxnPendingRelease {
			return errors.NotPendingRelease("Trade is not awaiting release")
		}
		if trade.ReleaseAt == nil || trade.ReleaseAt.After(time.Now()) {
			return errors.NotPendingRelease("Release window has not elapsed")
		}

		listing, err := ops.GetListing(trade.ListingID)
		if err != nil {
			return err
		}

		if _, err := adjustBalance(ops, trade.SellerID, trade.Amount, entity.EntryRelease, trade.ID,
			"Escrow release to seller"); err != nil {
			return err
		}

		now := time.Now()
		listing.TradeStatus = entity.TradeStatusCompleted
		listing.ReleaseAt = nil
		listing.TradeCompletedAt = &now
		listing.UpdatedAt = now
		if err := ops.PutListing(listing); err != nil {
			return err
		}

		trade.Status = entity.TradeTxnCompleted
		trade.ReleaseAt = nil
		trade.CompletedAt = &now
		trade.UpdatedAt = now
		if adminID != "" {
			trade.AdminHandledBy = adminID
			trade.AdminHandledAt = &now
		}
		return ops.PutTrade(trade)
	})
	if err != nil {
		return nil, err
	}

	actor := adminID
	if actor == "" {
		actor = "system"
	}
	uc.audit(ctx, trade.ID, actor, "release",
		fmt.Sprintf("Escrow of %d coins released to seller %s", trade.Amount, trade.SellerID))
	return trade, nil
}

// StartSweep runs the release scheduler until ctx is cancelled.
func (uc *EscrowReleaseUseCase) StartSweep(ctx context.Context) {
	logger.Info("Escrow release sweep started, interval %s", uc.sweepInterval)
	ticker := time.NewTicker(uc.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Escrow release sweep stopped")
			return
		case <-ticker.C:
			released, err := uc.SweepDueReleases(ctx)
			if err != nil {
				logger.Error("Escrow sweep failed: %v", err)
				continue
			}
			if released > 0 {
				logger.Info("Escrow sweep released %d trade(s)", released)
			}
		}
	}
}

func (uc *EscrowReleaseUseCase) audit(ctx context.Context, tradeID, actorID, action, message string) {
	err := uc.tradeRepo.CreateLog(ctx, &entity.TradeLog{
		ID:        uuid.New().String(),
		TradeID:   tradeID,
		Message:   message,
		CreatedBy: actorID,
	})
	if err != nil {
		logger.LogTradeAuditError(tradeID, action, err)
	}
}

func (uc *EscrowReleaseUseCase) notifyCompleted(trade *entity.TradeTransaction) {
	if uc.notifier == nil {
		return
	}
	payload := map[string]interface{}{
		"trade_id":   trade.ID,
		"listing_id": trade.ListingID,
		"status":     trade.Status,
		"amount":     trade.Amount,
	}
	uc.notifier.Notify(trade.BuyerID, "trade_completed", payload)
	uc.notifier.Notify(trade.SellerID, "trade_completed", payload)
}
