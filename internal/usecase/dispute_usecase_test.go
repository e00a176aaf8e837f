package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevault/internal/domain/entity"
	"tradevault/pkg/errors"
)

func TestFileReportOpensDisputeAndFreezesTrade(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)
	require.NotNil(t, trade.ReleaseAt)

	trade, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "item credentials were never delivered",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TradeTxnDisputed, trade.Status)
	assert.Equal(t, entity.DisputeOpen, trade.Dispute.Status)
	assert.Nil(t, trade.ReleaseAt)
	require.NotNil(t, trade.Dispute.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *trade.Dispute.ExpiresAt, 5*time.Second)
	require.NotNil(t, trade.Dispute.BuyerReport)
	assert.Nil(t, trade.Dispute.SellerReport)

	gotListing, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Nil(t, gotListing.ReleaseAt)
}

func TestFileReportOnPendingTradeAllowed(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	trade, err = env.disputes.FileReport(context.Background(), "seller", FileReportInput{
		TradeID: trade.ID,
		Reason:  "buyer is asking to settle outside the marketplace",
		Urgency: entity.UrgencyMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TradeTxnDisputed, trade.Status)
}

func TestDuplicateReportBySamePartyRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)

	_, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "item credentials were never delivered",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	_, err = env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "still nothing received",
		Urgency: entity.UrgencyHigh,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "DUPLICATE_REPORT"))
}

func TestCounterReportMovesToBothReported(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)

	_, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "item credentials were never delivered",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	trade, err = env.disputes.FileReport(context.Background(), "seller", FileReportInput{
		TradeID: trade.ID,
		Reason:  "credentials were sent, buyer changed the password",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DisputeBothReported, trade.Dispute.Status)
	require.NotNil(t, trade.Dispute.SellerReport)
	require.NotNil(t, trade.Dispute.BuyerReport)
}

func TestFileReportByStrangerRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	env.seedUser(t, "other", 0)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)

	_, err := env.disputes.FileReport(context.Background(), "other", FileReportInput{
		TradeID: trade.ID,
		Reason:  "I have opinions about this trade",
		Urgency: entity.UrgencyLow,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_PARTY"))
}

func TestFileReportOnCompletedTradeRejected(t *testing.T) {
	env := newTestEnv(t, -time.Minute)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)
	_, err := env.release.ReleaseTrade(context.Background(), "admin-1", trade.ID)
	require.NoError(t, err)

	_, err = env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "actually the item was wrong",
		Urgency: entity.UrgencyLow,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "TRADE_NOT_PENDING"))
}

func TestResolveBuyerWinsRefundsBuyer(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)
	_, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "item credentials were never delivered",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	trade, err = env.disputes.Resolve(context.Background(), "admin-1", ResolveInput{
		TradeID:   trade.ID,
		Winner:    entity.WinnerBuyer,
		AdminNote: "seller provided no delivery evidence",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TradeTxnCompleted, trade.Status)
	assert.Equal(t, entity.DisputeResolved, trade.Dispute.Status)
	require.NotNil(t, trade.Dispute.AdminDecision)
	assert.Equal(t, entity.WinnerBuyer, trade.Dispute.AdminDecision.Winner)
	assert.Equal(t, "admin-1", trade.AdminHandledBy)

	assert.Equal(t, int64(500), env.balance(t, "buyer"))
	assert.Equal(t, int64(0), env.balance(t, "seller"))

	gotListing, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusCancelled, gotListing.TradeStatus)
	assert.Empty(t, gotListing.BuyerID)
}

func TestResolveSellerWinsPaysSeller(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)
	_, err := env.disputes.FileReport(context.Background(), "seller", FileReportInput{
		TradeID: trade.ID,
		Reason:  "buyer refuses to confirm despite receiving the item",
		Urgency: entity.UrgencyMedium,
	})
	require.NoError(t, err)

	trade, err = env.disputes.Resolve(context.Background(), "admin-1", ResolveInput{
		TradeID:   trade.ID,
		Winner:    entity.WinnerSeller,
		AdminNote: "delivery log shows handover",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(300), env.balance(t, "seller"))
	assert.Equal(t, int64(200), env.balance(t, "buyer"))

	gotListing, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusCompleted, gotListing.TradeStatus)
}

func TestResolveInvalidWinnerRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)
	_, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "item credentials were never delivered",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	_, err = env.disputes.Resolve(context.Background(), "admin-1", ResolveInput{
		TradeID:   trade.ID,
		Winner:    "the-house",
		AdminNote: "split it",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_WINNER"))
}

func TestResolveTwiceRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)
	_, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "item credentials were never delivered",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	_, err = env.disputes.Resolve(context.Background(), "admin-1", ResolveInput{
		TradeID:   trade.ID,
		Winner:    entity.WinnerBuyer,
		AdminNote: "seller provided no delivery evidence",
	})
	require.NoError(t, err)

	_, err = env.disputes.Resolve(context.Background(), "admin-2", ResolveInput{
		TradeID:   trade.ID,
		Winner:    entity.WinnerSeller,
		AdminNote: "second thoughts",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "DISPUTE_NOT_OPEN"))
	assert.Equal(t, int64(500), env.balance(t, "buyer"))
	assert.Equal(t, int64(0), env.balance(t, "seller"))
}

func TestListOpenDisputesOrdersByDeadline(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 1000)
	first := env.seedListing(t, "seller", 300)
	second := env.seedListing(t, "seller", 200)

	tradeA := reserveAndConfirm(t, env, "buyer", first.ID)
	_, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: tradeA.ID,
		Reason:  "item credentials were never delivered",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	tradeB := reserveAndConfirm(t, env, "buyer", second.ID)
	_, err = env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: tradeB.ID,
		Reason:  "wrong item delivered entirely",
		Urgency: entity.UrgencyLow,
	})
	require.NoError(t, err)

	open, total, err := env.disputes.ListOpen(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, open, 2)
	assert.Equal(t, tradeA.ID, open[0].ID)
}
