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

// DisputeUseCase handles dispute reports from trade parties and the admin
// arbitration that settles them. An open dispute suspends automatic release
// by clearing ReleaseAt on both the trade and its listing.
type DisputeUseCase struct {
	store         repository.AtomicStore
	tradeRepo     repository.TradeRepository
	notifier      Notifier
	disputeWindow time.Duration
}

func NewDisputeUseCase(
	store repository.AtomicStore,
	tradeRepo repository.TradeRepository,
	notifier Notifier,
	disputeWindow time.Duration,
) *DisputeUseCase {
	return &DisputeUseCase{
		store:         store,
		tradeRepo:     tradeRepo,
		notifier:      notifier,
		disputeWindow: disputeWindow,
	}
}

type FileReportInput struct {
	TradeID     string
	Reason      string
	Urgency     string
	EvidenceURL string
}

// FileReport records one party's dispute report. The first report opens the
// dispute, stamps the report deadline, and freezes the trade; the counter
// report only moves the dispute to both_reported.
func (uc *DisputeUseCase) FileReport(ctx context.Context, userID string, input FileReportInput) (*entity.TradeTransaction, error) {
	var trade *entity.TradeTransaction
	var opened bool

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		trade, err = ops.GetTrade(input.TradeID)
		if err != nil {
			return err
		}
		if !trade.IsParty(userID) {
			return errors.NotParty("Only the buyer or the seller can file a dispute report")
		}
		if !trade.Disputable() {
			return errors.TradeNotPending("Trade is no longer disputable")
		}

		report := &entity.DisputeReport{
			Reason:      input.Reason,
			Urgency:     input.Urgency,
			EvidenceURL: input.EvidenceURL,
			ReportedAt:  time.Now(),
		}

		if userID == trade.SellerID {
			if trade.Dispute.SellerReport != nil {
				return errors.DuplicateReport()
			}
			trade.Dispute.SellerReport = report
		} else {
			if trade.Dispute.BuyerReport != nil {
				return errors.DuplicateReport()
			}
			trade.Dispute.BuyerReport = report
		}

		now := time.Now()
		if trade.Dispute.Status == entity.DisputeNone {
			opened = true
			expiresAt := now.Add(uc.disputeWindow)
			trade.Dispute.Status = entity.DisputeOpen
			trade.Dispute.ExpiresAt = &expiresAt
		} else {
			trade.Dispute.Status = entity.DisputeBothReported
		}

		listing, err := ops.GetListing(trade.ListingID)
		if err != nil {
			return err
		}
		listing.ReleaseAt = nil
		listing.UpdatedAt = now
		if err := ops.PutListing(listing); err != nil {
			return err
		}

		trade.Status = entity.TradeTxnDisputed
		trade.ReleaseAt = nil
		trade.UpdatedAt = now
		return ops.PutTrade(trade)
	})
	if err != nil {
		return nil, err
	}

	if opened {
		uc.audit(ctx, trade.ID, userID, "dispute_open",
			fmt.Sprintf("Dispute opened by %s: %s", userID, input.Reason))
	} else {
		uc.audit(ctx, trade.ID, userID, "dispute_report",
			fmt.Sprintf("Counter report filed by %s: %s", userID, input.Reason))
	}
	uc.notifyParties(trade, "trade_disputed")
	return trade, nil
}

type ResolveInput struct {
	TradeID   string
	Winner    string
	AdminNote string
}

// Resolve settles an open dispute: the escrowed amount is awarded to the
// winning party, the dispute closes, and both the trade and the listing
// reach a terminal state. Winner buyer means the buyer is made whole and the
// listing is cancelled; winner seller completes the sale.
func (uc *DisputeUseCase) Resolve(ctx context.Context, adminID string, input ResolveInput) (*entity.TradeTransaction, error) {
	if input.Winner != entity.WinnerBuyer && input.Winner != entity.WinnerSeller {
		return nil, errors.InvalidWinner(input.Winner)
	}

	var trade *entity.TradeTransaction

	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		trade, err = ops.GetTrade(input.TradeID)
		if err != nil {
			return err
		}
		if !trade.Dispute.IsOpen() {
			return errors.DisputeNotOpen()
		}

		listing, err := ops.GetListing(trade.ListingID)
		if err != nil {
			return err
		}

		winnerID := trade.SellerID
		if input.Winner == entity.WinnerBuyer {
			winnerID = trade.BuyerID
		}
		if _, err := adjustBalance(ops, winnerID, trade.Amount, entity.EntryAward, trade.ID,
			fmt.Sprintf("Dispute award to %s", input.Winner)); err != nil {
			return err
		}

		now := time.Now()
		trade.Dispute.Status = entity.DisputeResolved
		trade.Dispute.AdminDecision = &entity.AdminDecision{
			Winner:    input.Winner,
			DecidedAt: now,
			AdminNote: input.AdminNote,
		}

		if input.Winner == entity.WinnerSeller {
			listing.TradeStatus = entity.TradeStatusCompleted
			listing.TradeCompletedAt = &now
		} else {
			// Cancelled listings carry no buyer; the trade record keeps the
			// history.
			listing.TradeStatus = entity.TradeStatusCancelled
			listing.Available = false
			listing.BuyerID = ""
			listing.CancellationNote = input.AdminNote
		}
		listing.ReleaseAt = nil
		listing.UpdatedAt = now
		if err := ops.PutListing(listing); err != nil {
			return err
		}

		trade.Status = entity.TradeTxnCompleted
		trade.ReleaseAt = nil
		trade.CompletedAt = &now
		trade.AdminHandledBy = adminID
		trade.AdminHandledAt = &now
		trade.UpdatedAt = now
		return ops.PutTrade(trade)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, trade.ID, adminID, "dispute_resolve",
		fmt.Sprintf("Dispute resolved in favor of %s: %s", input.Winner, input.AdminNote))
	uc.notifyParties(trade, "dispute_resolved")
	return trade, nil
}

// ListOpen returns the admin arbitration queue, oldest report deadline
// first.
func (uc *DisputeUseCase) ListOpen(ctx context.Context, limit, offset int) ([]*entity.TradeTransaction, int64, error) {
	return uc.tradeRepo.ListOpenDisputes(ctx, limit, offset)
}

func (uc *DisputeUseCase) audit(ctx context.Context, tradeID, actorID, action, message string) {
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

func (uc *DisputeUseCase) notifyParties(trade *entity.TradeTransaction, event string) {
	if uc.notifier == nil {
		return
	}
	payload := map[string]interface{}{
		"trade_id":       trade.ID,
		"listing_id":     trade.ListingID,
		"status":         trade.Status,
		"dispute_status": trade.Dispute.Status,
	}
	uc.notifier.Notify(trade.BuyerID, event, payload)
	uc.notifier.Notify(trade.SellerID, event, payload)
}
