package router

import (
	"github.com/labstack/echo/v4"

	"tradevault/internal/adapter/api/handler"
	"tradevault/internal/adapter/api/middleware"
)

func SetupWalletRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	walletHandler := handler.GetWalletHandler()

	wallet := e.Group("/v1/wallet")
	wallet.Use(authMiddleware.Authenticate)

	wallet.GET("", walletHandler.GetWallet)
	wallet.GET("/entries", walletHandler.GetWalletEntries)

	wallet.POST("/deposits", walletHandler.CreateDepositRequest)
	wallet.GET("/deposits", walletHandler.GetDepositRequests)

	wallet.POST("/withdrawals", walletHandler.CreateWithdrawRequest, rateLimitMiddleware.Limit("withdraw"))
	wallet.GET("/withdrawals", walletHandler.GetWithdrawRequests)
}
