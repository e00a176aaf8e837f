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

func TestReserveHoldsFundsAndPendsListing(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TradeTxnPending, trade.Status)
	assert.Equal(t, int64(300), trade.Amount)
	assert.Equal(t, "buyer", trade.BuyerID)
	assert.Equal(t, "seller", trade.SellerID)
	assert.Nil(t, trade.ReleaseAt)

	assert.Equal(t, int64(200), env.balance(t, "buyer"))
	assert.Equal(t, int64(0), env.balance(t, "seller"))

	got, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusPending, got.TradeStatus)
	assert.False(t, got.Available)
	assert.Equal(t, "buyer", got.BuyerID)
	assert.NotNil(t, got.PurchasedAt)

	entries, err := env.store.WalletRepo().ListEntriesByUserID(context.Background(), "buyer", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EntryHold, entries[0].Type)
	assert.Equal(t, int64(-300), entries[0].Amount)
	assert.Equal(t, trade.ID, entries[0].Reference)
}

func TestReserveInsufficientFundsLeavesEverythingUntouched(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 100)
	listing := env.seedListing(t, "seller", 300)

	_, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INSUFFICIENT_FUNDS"))

	assert.Equal(t, int64(100), env.balance(t, "buyer"))

	got, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusAvailable, got.TradeStatus)
	assert.True(t, got.Available)
	assert.Empty(t, got.BuyerID)

	entries, err := env.store.WalletRepo().ListEntriesByUserID(context.Background(), "buyer", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReserveOwnListingRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 1000)
	listing := env.seedListing(t, "seller", 300)

	_, err := env.trades.Reserve(context.Background(), "seller", listing.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CANNOT_BUY_OWN"))
	assert.Equal(t, int64(1000), env.balance(t, "seller"))
}

func TestReserveLosesRaceToFirstBuyer(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer1", 500)
	env.seedUser(t, "buyer2", 500)
	listing := env.seedListing(t, "seller", 300)

	_, err := env.trades.Reserve(context.Background(), "buyer1", listing.ID)
	require.NoError(t, err)

	_, err = env.trades.Reserve(context.Background(), "buyer2", listing.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "LISTING_NOT_AVAILABLE"))
	assert.Equal(t, int64(500), env.balance(t, "buyer2"))
}

func TestConfirmSinglePartyKeepsTradePending(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	trade, err = env.trades.Confirm(context.Background(), "buyer", trade.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeTxnPending, trade.Status)
	assert.Nil(t, trade.ReleaseAt)
}

func TestConfirmTwiceBySamePartyRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	_, err = env.trades.Confirm(context.Background(), "buyer", trade.ID)
	require.NoError(t, err)

	_, err = env.trades.Confirm(context.Background(), "buyer", trade.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "ALREADY_CONFIRMED"))
}

func TestMutualConfirmStartsReleaseWindow(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	_, err = env.trades.Confirm(context.Background(), "buyer", trade.ID)
	require.NoError(t, err)
	trade, err = env.trades.Confirm(context.Background(), "seller", trade.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TradeTxnPendingRelease, trade.Status)
	require.NotNil(t, trade.ReleaseAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *trade.ReleaseAt, 5*time.Second)

	got, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusPendingRelease, got.TradeStatus)
	require.NotNil(t, got.ReleaseAt)
}

func TestConfirmByStrangerRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	env.seedUser(t, "other", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	_, err = env.trades.Confirm(context.Background(), "other", trade.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_PARTY"))
}

func TestCancelRefundsBuyerAndReopensListing(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), env.balance(t, "buyer"))

	trade, err = env.trades.Cancel(context.Background(), "seller", trade.ID, "item no longer for sale")
	require.NoError(t, err)

	assert.Equal(t, entity.TradeTxnCancelled, trade.Status)
	assert.NotNil(t, trade.CancelledAt)
	assert.Equal(t, "item no longer for sale", trade.CancellationNote)
	assert.Equal(t, int64(500), env.balance(t, "buyer"))

	got, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusAvailable, got.TradeStatus)
	assert.True(t, got.Available)
	assert.Empty(t, got.BuyerID)
	assert.Empty(t, got.TradeConfirmations)
	assert.Nil(t, got.PurchasedAt)

	// Listing can be reserved again after cancellation
	_, err = env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)
}

func TestCancelAfterMutualConfirmRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)
	_, err = env.trades.Confirm(context.Background(), "buyer", trade.ID)
	require.NoError(t, err)
	_, err = env.trades.Confirm(context.Background(), "seller", trade.ID)
	require.NoError(t, err)

	_, err = env.trades.Cancel(context.Background(), "buyer", trade.ID, "changed my mind")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "TRADE_NOT_PENDING"))
	assert.Equal(t, int64(200), env.balance(t, "buyer"))
}

func TestCancelByStrangerRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	env.seedUser(t, "other", 0)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	_, err = env.trades.Cancel(context.Background(), "other", trade.ID, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_PARTY"))
}

func TestGetTradeVisibility(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	env.seedUser(t, "other", 0)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	_, err = env.trades.Get(context.Background(), "buyer", false, trade.ID)
	require.NoError(t, err)

	_, err = env.trades.Get(context.Background(), "other", false, trade.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_PARTY"))

	_, err = env.trades.Get(context.Background(), "other", true, trade.ID)
	require.NoError(t, err)
}

func TestTradeAuditTrailRecorded(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)
	_, err = env.trades.Confirm(context.Background(), "buyer", trade.ID)
	require.NoError(t, err)

	logs, err := env.trades.ListLogs(context.Background(), "buyer", false, trade.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(logs), 2)
}
