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

// reserveAndConfirm walks a listing through reservation and mutual
// confirmation, returning the pending_release trade.
func reserveAndConfirm(t *testing.T, env *testEnv, buyerID, listingID string) *entity.TradeTransaction {
	t.Helper()
	ctx := context.Background()

	trade, err := env.trades.Reserve(ctx, buyerID, listingID)
	require.NoError(t, err)
	_, err = env.trades.Confirm(ctx, buyerID, trade.ID)
	require.NoError(t, err)
	trade, err = env.trades.Confirm(ctx, trade.SellerID, trade.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TradeTxnPendingRelease, trade.Status)
	return trade
}

func TestSweepReleasesDueTrade(t *testing.T) {
	// Negative window: the trade is due the moment both parties confirm.
	env := newTestEnv(t, -time.Minute)
	env.seedUser(t, "seller", 100)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	before := env.totalCoins(t, "seller", "buyer")

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)

	released, err := env.release.SweepDueReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	assert.Equal(t, int64(400), env.balance(t, "seller"))
	assert.Equal(t, int64(200), env.balance(t, "buyer"))
	assert.Equal(t, before, env.totalCoins(t, "seller", "buyer"))

	got, err := env.store.TradeRepo().GetByID(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeTxnCompleted, got.Status)
	assert.Nil(t, got.ReleaseAt)
	assert.NotNil(t, got.CompletedAt)
	assert.Empty(t, got.AdminHandledBy)

	gotListing, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusCompleted, gotListing.TradeStatus)
	assert.NotNil(t, gotListing.TradeCompletedAt)
}

func TestSweepSkipsTradeInsideWindow(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	reserveAndConfirm(t, env, "buyer", listing.ID)

	released, err := env.release.SweepDueReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, int64(0), env.balance(t, "seller"))
}

func TestSweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t, -time.Minute)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	reserveAndConfirm(t, env, "buyer", listing.ID)

	released, err := env.release.SweepDueReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	released, err = env.release.SweepDueReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, int64(300), env.balance(t, "seller"))
}

func TestOpenDisputeSuspendsRelease(t *testing.T) {
	env := newTestEnv(t, -time.Minute)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)

	_, err := env.disputes.FileReport(context.Background(), "buyer", FileReportInput{
		TradeID: trade.ID,
		Reason:  "seller never handed the item over",
		Urgency: entity.UrgencyHigh,
	})
	require.NoError(t, err)

	released, err := env.release.SweepDueReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, int64(0), env.balance(t, "seller"))
}

func TestAdminReleaseRespectsDueCheck(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)

	_, err := env.release.ReleaseTrade(context.Background(), "admin-1", trade.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_PENDING_RELEASE"))
}

func TestAdminReleaseRecordsHandler(t *testing.T) {
	env := newTestEnv(t, -time.Minute)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade := reserveAndConfirm(t, env, "buyer", listing.ID)

	got, err := env.release.ReleaseTrade(context.Background(), "admin-1", trade.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeTxnCompleted, got.Status)
	assert.Equal(t, "admin-1", got.AdminHandledBy)
	assert.NotNil(t, got.AdminHandledAt)
	assert.Equal(t, int64(300), env.balance(t, "seller"))
}

func TestSweepHonorsBatchSize(t *testing.T) {
	env := newTestEnv(t, -time.Minute)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 1000)
	first := env.seedListing(t, "seller", 300)
	second := env.seedListing(t, "seller", 200)

	reserveAndConfirm(t, env, "buyer", first.ID)
	reserveAndConfirm(t, env, "buyer", second.ID)

	release := NewEscrowReleaseUseCase(env.store, env.store.TradeRepo(), env.notifier, time.Minute, 1)

	released, err := release.SweepDueReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, int64(300), env.balance(t, "seller"))

	released, err = release.SweepDueReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, int64(500), env.balance(t, "seller"))
}

func TestReleaseOfPendingTradeRejected(t *testing.T) {
	env := newTestEnv(t, -time.Minute)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	trade, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	_, err = env.release.ReleaseTrade(context.Background(), "admin-1", trade.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_PENDING_RELEASE"))
}
