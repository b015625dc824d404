package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fJavierPC/user-auth-microservice/internal/auth/dto"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/service"
	autherror "github.com/fJavierPC/user-auth-microservice/internal/errors"
	"github.com/fJavierPC/user-auth-microservice/pkg/constant"
)

type AuthHandler struct {
	userService *service.UserService
	validate    *validator.Validate
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterOutput{
		ID:       user.ID,
		Username: user.Username,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Capture metadata for the login history entry
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	_, tokenPair, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tokens, err := h.userService.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Revoke(c *fiber.Ctx) error {
	var input dto.RevokeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.userService.Revoke(c.UserContext(), input.Token); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "token has been revoked"})
}

func (h *AuthHandler) LoginHistory(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	limit := c.QueryInt("limit", constant.DefaultLoginHistoryLimit)

	entries, err := h.userService.LoginHistory(c.UserContext(), user.UserID, limit)
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]dto.LoginHistoryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LoginHistoryOutput{
			LoginTimestamp: e.LoginTimestamp,
			IPAddress:      e.IPAddress,
			UserAgent:      e.UserAgent,
		})
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, autherror.ErrUsernameTaken):
		return fiber.StatusConflict
	case errors.Is(err, autherror.ErrAccountLocked):
		return fiber.StatusLocked
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrInvalidToken),
		errors.Is(err, autherror.ErrTokenExpired),
		errors.Is(err, autherror.ErrTokenRevoked):
		return fiber.StatusUnauthorized
	case errors.Is(err, autherror.ErrAccountNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
