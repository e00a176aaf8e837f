package router

import (
	"github.com/labstack/echo/v4"

	"tradevault/internal/adapter/api/handler"
	"tradevault/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.PATCH("/me", userHandler.UpdateProfile)
	users.GET("/:id", userHandler.GetUser)
}
