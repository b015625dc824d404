package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/api/v1/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/revoke", h.Revoke)

	users := app.Group("/api/v1/users", h.RequireAuth)
	users.Get("/login-history", h.LoginHistory)
}
