package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesCode(t *testing.T) {
	err := InsufficientFunds("balance too low")
	assert.True(t, Is(err, "INSUFFICIENT_FUNDS"))
	assert.False(t, Is(err, "NOT_FOUND"))
	assert.False(t, Is(fmt.Errorf("plain error"), "INSUFFICIENT_FUNDS"))
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("reserving trade: %w", ListingNotAvailable("already reserved"))
	assert.True(t, Is(err, "LISTING_NOT_AVAILABLE"))
}

func TestDomainErrorStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, InsufficientFunds("x").Status)
	assert.Equal(t, http.StatusConflict, ListingNotAvailable("x").Status)
	assert.Equal(t, http.StatusForbidden, NotParty("x").Status)
	assert.Equal(t, http.StatusConflict, AlreadyConfirmed().Status)
	assert.Equal(t, http.StatusConflict, DisputeOpen().Status)
	assert.Equal(t, http.StatusBadGateway, PayoutFailed(fmt.Errorf("down")).Status)
}

// Every domain error carries its own code so callers can branch on the
// outcome rather than on message text.
func TestDomainErrorCodesAreDistinct(t *testing.T) {
	assert.Equal(t, "CANNOT_BUY_OWN", CannotBuyOwn().Code)
	assert.Equal(t, "INVALID_WINNER", InvalidWinner("the-house").Code)
	assert.NotEqual(t, BadRequest("x", nil).Code, CannotBuyOwn().Code)
	assert.NotEqual(t, BadRequest("x", nil).Code, InvalidWinner("x").Code)
}
