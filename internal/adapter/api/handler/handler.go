package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradevault/internal/usecase"
)

var (
	authHandler    *AuthHandler
	userHandler    *UserHandler
	listingHandler *ListingHandler
	tradeHandler   *TradeHandler
	disputeHandler *DisputeHandler
	walletHandler  *WalletHandler
	adminHandler   *AdminHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	tradeUseCase *usecase.TradeUseCase,
	disputeUseCase *usecase.DisputeUseCase,
	releaseUseCase *usecase.EscrowReleaseUseCase,
	walletUseCase *usecase.WalletUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	tradeHandler = NewTradeHandler(tradeUseCase)
	disputeHandler = NewDisputeHandler(disputeUseCase)
	walletHandler = NewWalletHandler(walletUseCase)
	adminHandler = NewAdminHandler(userUseCase, disputeUseCase, releaseUseCase, walletUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetTradeHandler() *TradeHandler {
	return tradeHandler
}

func GetDisputeHandler() *DisputeHandler {
	return disputeHandler
}

func GetWalletHandler() *WalletHandler {
	return walletHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

// getUserID extracts the authenticated user ID set by the auth middleware.
func getUserID(c echo.Context) (string, error) {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid session")
	}
	return userID, nil
}

func isAdmin(c echo.Context) bool {
	admin, ok := c.Get("is_admin").(bool)
	return ok && admin
}
