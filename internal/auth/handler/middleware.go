package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fJavierPC/user-auth-microservice/internal/auth/domain"
)

const localsUserKey = "currentUser"

// RequireAuth guards protected routes. It extracts the bearer token, runs it
// through the full validation gate (blacklist, signature, expiry, account
// lookup) and stores the resulting UserContext in fiber locals.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	user, err := h.userService.Authorize(c.UserContext(), token)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Locals(localsUserKey, user)

	return c.Next()
}

func currentUser(c *fiber.Ctx) *domain.UserContext {
	user, _ := c.Locals(localsUserKey).(*domain.UserContext)
	return user
}
