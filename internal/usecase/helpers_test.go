package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	memrepo "tradevault/internal/adapter/repository"
	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/service"
)

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Notify(userID string, event string, payload map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, userID+":"+event)
}

type fakePayout struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (f *fakePayout) Payout(ctx context.Context, amount int64, destination string) (*service.PayoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, amount)
	if f.err != nil {
		return nil, f.err
	}
	return &service.PayoutResult{BatchID: "batch-1", Status: "processed"}, nil
}

type testEnv struct {
	store    *memrepo.MemoryStore
	notifier *fakeNotifier
	payout   *fakePayout

	trades   *TradeUseCase
	release  *EscrowReleaseUseCase
	disputes *DisputeUseCase
	wallets  *WalletUseCase
	listings *ListingUseCase
}

// newTestEnv wires the use cases against the in-memory store. releaseWindow
// controls when a mutually confirmed trade becomes due: a negative window
// makes it due immediately.
func newTestEnv(t *testing.T, releaseWindow time.Duration) *testEnv {
	t.Helper()

	store := memrepo.NewMemoryStore()
	notifier := &fakeNotifier{}
	payout := &fakePayout{}

	return &testEnv{
		store:    store,
		notifier: notifier,
		payout:   payout,
		trades:   NewTradeUseCase(store, store.TradeRepo(), notifier, releaseWindow),
		release:  NewEscrowReleaseUseCase(store, store.TradeRepo(), notifier, time.Minute, 100),
		disputes: NewDisputeUseCase(store, store.TradeRepo(), notifier, 24*time.Hour),
		wallets:  NewWalletUseCase(store, store.WalletRepo(), payout, notifier),
		listings: NewListingUseCase(store.ListingRepo(), store),
	}
}

func (e *testEnv) seedUser(t *testing.T, id string, balance int64) {
	t.Helper()
	ctx := context.Background()

	err := e.store.UserRepo().Create(ctx, &entity.User{
		ID:       id,
		Email:    id + "@example.com",
		Username: id,
		Role:     "user",
		Status:   "active",
	})
	require.NoError(t, err)

	now := time.Now()
	err = e.store.WalletRepo().CreateWallet(ctx, &entity.Wallet{
		ID:        "wallet-" + id,
		UserID:    id,
		Balance:   balance,
		Status:    "active",
		LastTxnAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

func (e *testEnv) seedListing(t *testing.T, sellerID string, price int64) *entity.Listing {
	t.Helper()

	listing, err := e.listings.Create(context.Background(), sellerID, CreateListingInput{
		GameTitle:   "Eternal Realms",
		Title:       "Dragonfang Blade",
		Description: "Max level, bound on equip",
		Price:       price,
	})
	require.NoError(t, err)
	return listing
}

func (e *testEnv) balance(t *testing.T, userID string) int64 {
	t.Helper()

	wallet, err := e.store.WalletRepo().GetWalletByUserID(context.Background(), userID)
	require.NoError(t, err)
	return wallet.Balance
}

// totalCoins sums all seeded balances, for conservation checks. Coins held
// in escrow are not in any wallet, so callers account for open holds.
func (e *testEnv) totalCoins(t *testing.T, userIDs ...string) int64 {
	t.Helper()

	var total int64
	for _, id := range userIDs {
		total += e.balance(t, id)
	}
	return total
}
