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

func TestCreateListingStartsAvailable(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)

	listing := env.seedListing(t, "seller", 300)
	assert.Equal(t, entity.TradeStatusAvailable, listing.TradeStatus)
	assert.True(t, listing.Available)

	available, total, err := env.listings.ListAvailable(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, available, 1)
	assert.Equal(t, listing.ID, available[0].ID)
}

func TestCreateListingRejectsNonPositivePrice(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)

	_, err := env.listings.Create(context.Background(), "seller", CreateListingInput{
		GameTitle: "Eternal Realms",
		Title:     "Free Sword",
		Price:     0,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestUpdateListingPriceAndDescription(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	listing := env.seedListing(t, "seller", 300)

	newPrice := int64(450)
	newDescription := "Now with enchantment scroll included"
	updated, err := env.listings.Update(context.Background(), "seller", listing.ID, UpdateListingInput{
		Price:       &newPrice,
		Description: &newDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(450), updated.Price)
	assert.Equal(t, newDescription, updated.Description)
	assert.Equal(t, listing.Title, updated.Title)
}

func TestUpdateListingByNonOwnerRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "other", 0)
	listing := env.seedListing(t, "seller", 300)

	newPrice := int64(1)
	_, err := env.listings.Update(context.Background(), "other", listing.ID, UpdateListingInput{Price: &newPrice})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestUpdateListingDuringTradeRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	_, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	newPrice := int64(9999)
	_, err = env.listings.Update(context.Background(), "seller", listing.ID, UpdateListingInput{Price: &newPrice})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "LISTING_NOT_AVAILABLE"))

	got, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), got.Price)
}

func TestDeleteListingDuringTradeRejected(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	_, err := env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	err = env.listings.Delete(context.Background(), "seller", listing.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "LISTING_NOT_AVAILABLE"))
}

func TestDeleteListingIsSoft(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	listing := env.seedListing(t, "seller", 300)

	err := env.listings.Delete(context.Background(), "seller", listing.ID)
	require.NoError(t, err)

	_, err = env.listings.GetByID(context.Background(), listing.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	available, total, err := env.listings.ListAvailable(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, available)
}

func TestDeletedListingCannotBeReserved(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.seedUser(t, "seller", 0)
	env.seedUser(t, "buyer", 500)
	listing := env.seedListing(t, "seller", 300)

	err := env.listings.Delete(context.Background(), "seller", listing.ID)
	require.NoError(t, err)

	_, err = env.trades.Reserve(context.Background(), "buyer", listing.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.Equal(t, int64(500), env.balance(t, "buyer"))
}
