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

// TradeUseCase drives the escrow lifecycle: reservation, dual confirmation,
// and cancellation. Every state change runs as one atomic unit so listing,
// trade, and wallet records never disagree.
type TradeUseCase struct {
	store         repository.AtomicStore
	tradeRepo     repository.TradeRepository
	notifier      Notifier
	releaseWindow time.Duration
}

func NewTradeUseCase(
	store repository.AtomicStore,
	tradeRepo repository.TradeRepository,
	notifier Notifier,
	releaseWindow time.Duration,
) *TradeUseCase {
	return &TradeUseCase{
		store:         store,
		tradeRepo:     tradeRepo,
		notifier:      notifier,
		releaseWindow: releaseWindow,
	}
}

// Reserve places a hold on the listing for the buyer: the listing flips from
// available to pending, the buyer's wallet is debited the full price into
// escrow, and a trade transaction is opened. Exactly one buyer can win a
// contested listing; the rest fail with LISTING_NOT_AVAILABLE.
func (uc *TradeUseCase) Reserve(ctx context.Context, buyerID, listingID string) (*entity.TradeTransaction, error) {
	tradeID := uuid.New().String()
	var trade *entity.TradeTransaction

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		listing, err := ops.GetListing(listingID)
		if err != nil {
			return err
		}
		if listing.TradeStatus != entity.TradeStatusAvailable {
			return errors.ListingNotAvailable("Listing is not open for reservation")
		}
		if listing.SellerID == buyerID {
			return errors.CannotBuyOwn()
		}

		if _, err := adjustBalance(ops, buyerID, -listing.Price, entity.EntryHold, tradeID,
			fmt.Sprintf("Escrow hold for listing %s", listing.Title)); err != nil {
			return err
		}

		now := time.Now()
		listing.Available = false
		listing.TradeStatus = entity.TradeStatusPending
		listing.BuyerID = buyerID
		listing.TradeConfirmations = nil
		listing.PurchasedAt = &now
		listing.UpdatedAt = now
		if err := ops.PutListing(listing); err != nil {
			return err
		}

		trade = &entity.TradeTransaction{
			ID:        tradeID,
			ListingID: listing.ID,
			BuyerID:   buyerID,
			SellerID:  listing.SellerID,
			Amount:    listing.Price,
			Status:    entity.TradeTxnPending,
			Dispute:   entity.Dispute{Status: entity.DisputeNone},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return ops.PutTrade(trade)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, trade.ID, buyerID, "reserve", fmt.Sprintf("Buyer reserved listing %s for %d coins", trade.ListingID, trade.Amount))
	uc.notifyParties(trade, "trade_reserved")
	return trade, nil
}

// Confirm records one party's confirmation. When both parties have
// confirmed, the trade enters pending_release and the release timer starts.
func (uc *TradeUseCase) Confirm(ctx context.Context, userID, tradeID string) (*entity.TradeTransaction, error) {
	var trade *entity.TradeTransaction
	var mutual bool

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		trade, err = ops.GetTrade(tradeID)
		if err != nil {
			return err
		}
		if !trade.IsParty(userID) {
			return errors.NotParty("Only the buyer or the seller can confirm this trade")
		}
		if trade.Status != entity.TradeTxnPending {
			return errors.TradeNotPending("Trade is not awaiting confirmation")
		}

		listing, err := ops.GetListing(trade.ListingID)
		if err != nil {
			return err
		}
		if listing.HasConfirmed(userID) {
			return errors.AlreadyConfirmed()
		}
		listing.TradeConfirmations = append(listing.TradeConfirmations, userID)

		now := time.Now()
		listing.UpdatedAt = now
		trade.UpdatedAt = now

		if listing.MutuallyConfirmed() {
			mutual = true
			releaseAt := now.Add(uc.releaseWindow)
			listing.TradeStatus = entity.TradeStatusPendingRelease
			listing.ReleaseAt = &releaseAt
			trade.Status = entity.TradeTxnPendingRelease
			trade.ReleaseAt = &releaseAt
		}

		if err := ops.PutListing(listing); err != nil {
			return err
		}
		return ops.PutTrade(trade)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, trade.ID, userID, "confirm", fmt.Sprintf("Party %s confirmed the trade", userID))
	if mutual {
		uc.audit(ctx, trade.ID, userID, "mutual_confirm",
			fmt.Sprintf("Both parties confirmed; release scheduled at %s", trade.ReleaseAt.Format(time.RFC3339)))
		uc.notifyParties(trade, "trade_pending_release")
	} else {
		uc.notifyParties(trade, "trade_confirmed")
	}
	return trade, nil
}

// Cancel aborts a trade that has not reached mutual confirmation. The escrow
// hold is refunded to the buyer and the listing returns to the open market.
func (uc *TradeUseCase) Cancel(ctx context.Context, userID, tradeID, note string) (*entity.TradeTransaction, error) {
	var trade *entity.TradeTransaction

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		trade, err = ops.GetTrade(tradeID)
		if err != nil {
			return err
		}
		if !trade.IsParty(userID) {
			return errors.NotParty("Only the buyer or the seller can cancel this trade")
		}
		if trade.Dispute.IsOpen() {
			return errors.DisputeOpen()
		}
		if trade.Status != entity.TradeTxnPending {
			return errors.TradeNotPending("Only a pending trade can be cancelled")
		}

		listing, err := ops.GetListing(trade.ListingID)
		if err != nil {
			return err
		}

		if _, err := adjustBalance(ops, trade.BuyerID, trade.Amount, entity.EntryRefund, trade.ID,
			"Escrow refund on trade cancellation"); err != nil {
			return err
		}

		now := time.Now()
		listing.Available = true
		listing.TradeStatus = entity.TradeStatusAvailable
		listing.BuyerID = ""
		listing.TradeConfirmations = nil
		listing.PurchasedAt = nil
		listing.ReleaseAt = nil
		listing.CancellationNote = note
		listing.UpdatedAt = now
		if err := ops.PutListing(listing); err != nil {
			return err
		}

		trade.Status = entity.TradeTxnCancelled
		trade.CancellationNote = note
		trade.ReleaseAt = nil
		trade.CancelledAt = &now
		trade.UpdatedAt = now
		return ops.PutTrade(trade)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, trade.ID, userID, "cancel", fmt.Sprintf("Trade cancelled by %s: %s", userID, note))
	uc.notifyParties(trade, "trade_cancelled")
	return trade, nil
}

// Get returns a trade visible to its parties and admins only.
func (uc *TradeUseCase) Get(ctx context.Context, userID string, isAdmin bool, tradeID string) (*entity.TradeTransaction, error) {
	trade, err := uc.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !trade.IsParty(userID) {
		return nil, errors.NotParty("You are not a party to this trade")
	}
	return trade, nil
}

func (uc *TradeUseCase) ListMine(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.TradeTransaction, int64, error) {
	return uc.tradeRepo.ListByUserID(ctx, userID, role, status, limit, offset)
}

// ListLogs returns the audit trail for a trade, party or admin only.
func (uc *TradeUseCase) ListLogs(ctx context.Context, userID string, isAdmin bool, tradeID string) ([]*entity.TradeLog, error) {
	trade, err := uc.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !trade.IsParty(userID) {
		return nil, errors.NotParty("You are not a party to this trade")
	}
	return uc.tradeRepo.ListLogsByTradeID(ctx, tradeID)
}

// audit appends a trade log entry after the state change has committed.
// Failures are reported and swallowed; the audit trail never vetoes a trade.
func (uc *TradeUseCase) audit(ctx context.Context, tradeID, actorID, action, message string) {
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

func (uc *TradeUseCase) notifyParties(trade *entity.TradeTransaction, event string) {
	if uc.notifier == nil {
		return
	}
	payload := map[string]interface{}{
		"trade_id":   trade.ID,
		"listing_id": trade.ListingID,
		"status":     trade.Status,
	}
	uc.notifier.Notify(trade.BuyerID, event, payload)
	uc.notifier.Notify(trade.SellerID, event, payload)
}
