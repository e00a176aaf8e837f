package router

import (
	"github.com/labstack/echo/v4"

	"tradevault/internal/adapter/api/handler"
	"tradevault/internal/adapter/api/middleware"
)

func SetupTradeRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	tradeHandler := handler.GetTradeHandler()
	disputeHandler := handler.GetDisputeHandler()

	trades := e.Group("/v1/trades")
	trades.Use(authMiddleware.Authenticate)

	trades.POST("", tradeHandler.ReserveTrade, rateLimitMiddleware.Limit("reserve"))
	trades.GET("", tradeHandler.ListTrades)
	trades.GET("/:id", tradeHandler.GetTrade)
	trades.POST("/:id/confirm", tradeHandler.ConfirmTrade)
	trades.POST("/:id/cancel", tradeHandler.CancelTrade)
	trades.POST("/:id/dispute", disputeHandler.FileReport, rateLimitMiddleware.Limit("dispute"))
	trades.GET("/:id/logs", tradeHandler.GetTradeLogs)
}
