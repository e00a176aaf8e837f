package router

import (
	"github.com/labstack/echo/v4"

	"tradevault/internal/adapter/api/handler"
	"tradevault/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()
	tradeHandler := handler.GetTradeHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	// Deposit and withdrawal processing
	admin.GET("/deposits/pending", adminHandler.GetPendingDepositRequests)
	admin.POST("/deposits/:id/process", adminHandler.ProcessDepositRequest)
	admin.GET("/withdrawals/pending", adminHandler.GetPendingWithdrawRequests)
	admin.POST("/withdrawals/:id/process", adminHandler.ProcessWithdrawRequest)

	// Dispute arbitration and manual release
	admin.GET("/disputes", adminHandler.ListOpenDisputes)
	admin.POST("/trades/:id/resolve-dispute", adminHandler.ResolveDispute)
	admin.POST("/trades/:id/release", adminHandler.ReleaseTrade)
	admin.GET("/trades/:id", tradeHandler.GetTrade)
	admin.GET("/trades/:id/logs", tradeHandler.GetTradeLogs)

	// Fraud review
	admin.POST("/users/:id/flag-fraud", adminHandler.FlagFraud)
	admin.DELETE("/users/:id/flag-fraud", adminHandler.ClearFraudFlag)
}
