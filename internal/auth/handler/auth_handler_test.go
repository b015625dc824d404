package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fJavierPC/user-auth-microservice/internal/auth/domain"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/dto"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/handler"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/service"
	autherror "github.com/fJavierPC/user-auth-microservice/internal/errors"
	"github.com/fJavierPC/user-auth-microservice/internal/mocks"
)

type handlerMocks struct {
	repo      *mocks.MockUserRepository
	tokens    *mocks.MockTokenProvider
	blacklist *mocks.MockTokenBlacklist
}

func newTestHandler(t *testing.T) (*handler.AuthHandler, handlerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := handlerMocks{
		repo:      mocks.NewMockUserRepository(ctrl),
		tokens:    mocks.NewMockTokenProvider(ctrl),
		blacklist: mocks.NewMockTokenBlacklist(ctrl),
	}
	userService := service.NewUserService(m.repo, m.tokens, m.blacklist, zerolog.Nop())

	return handler.NewAuthHandler(userService), m
}

func TestRegister(t *testing.T) {
	authHandler, m := newTestHandler(t)

	app := fiber.New()
	app.Post("/register", authHandler.Register)

	t.Run("success", func(t *testing.T) {
		input := dto.RegisterInput{Username: "alice", Password: "password1"}

		m.repo.EXPECT().GetByUsername(gomock.Any(), input.Username).Return(nil, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("bad request", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/register", bytes.NewReader([]byte("")))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("username too short", func(t *testing.T) {
		input := dto.RegisterInput{Username: "bob", Password: "password1"}

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("password too short", func(t *testing.T) {
		input := dto.RegisterInput{Username: "alice", Password: "short"}

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate username", func(t *testing.T) {
		input := dto.RegisterInput{Username: "alice", Password: "password1"}

		m.repo.EXPECT().GetByUsername(gomock.Any(), input.Username).
			Return(&domain.User{ID: 1, Username: "alice"}, nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("store failure", func(t *testing.T) {
		input := dto.RegisterInput{Username: "alice", Password: "password1"}

		m.repo.EXPECT().GetByUsername(gomock.Any(), input.Username).
			Return(nil, errors.New("db down"))

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	authHandler, m := newTestHandler(t)

	app := fiber.New()
	app.Post("/login", authHandler.Login)

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		input := dto.LoginInput{Username: "alice", Password: "password1"}
		user := &domain.User{ID: 7, Username: "alice", PasswordHash: string(hash), Active: true}

		m.repo.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
		m.repo.EXPECT().ResetFailedAttempts(gomock.Any(), int64(7)).Return(nil)
		m.repo.EXPECT().AppendLoginHistory(gomock.Any(), int64(7), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.tokens.EXPECT().IssueAccessToken("alice").Return("access-token", nil)
		m.tokens.EXPECT().IssueRefreshToken("alice").Return("refresh-token", nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var tokens dto.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
		assert.Equal(t, "access-token", tokens.AccessToken)
		assert.Equal(t, "refresh-token", tokens.RefreshToken)
		assert.Equal(t, "bearer", tokens.TokenType)
	})

	t.Run("unauthorized - invalid password", func(t *testing.T) {
		input := dto.LoginInput{Username: "alice", Password: "wrong-password"}
		user := &domain.User{ID: 7, Username: "alice", PasswordHash: string(hash), Active: true}

		m.repo.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
		m.repo.EXPECT().IncrementFailedAttempts(gomock.Any(), int64(7)).Return(1, nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("locked account", func(t *testing.T) {
		input := dto.LoginInput{Username: "alice", Password: "password1"}
		user := &domain.User{ID: 7, Username: "alice", PasswordHash: string(hash), Locked: true}

		m.repo.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusLocked, resp.StatusCode)
	})

	t.Run("bad request - invalid json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login", bytes.NewReader([]byte("{invalid-json")))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestRefresh(t *testing.T) {
	authHandler, m := newTestHandler(t)

	app := fiber.New()
	app.Post("/refresh", authHandler.Refresh)

	t.Run("success", func(t *testing.T) {
		input := dto.RefreshInput{RefreshToken: "valid-refresh"}

		m.tokens.EXPECT().ValidateForAuth(gomock.Any(), "valid-refresh").Return("alice", nil)
		m.repo.EXPECT().GetByUsername(gomock.Any(), "alice").
			Return(&domain.User{ID: 7, Username: "alice", Active: true}, nil)
		m.tokens.EXPECT().IssueAccessToken("alice").Return("new-access", nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unauthorized", func(t *testing.T) {
		input := dto.RefreshInput{RefreshToken: "expired-refresh"}

		m.tokens.EXPECT().ValidateForAuth(gomock.Any(), "expired-refresh").
			Return("", autherror.ErrTokenExpired)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("account gone", func(t *testing.T) {
		input := dto.RefreshInput{RefreshToken: "orphan-refresh"}

		m.tokens.EXPECT().ValidateForAuth(gomock.Any(), "orphan-refresh").Return("ghost", nil)
		m.repo.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestRevoke(t *testing.T) {
	authHandler, m := newTestHandler(t)

	app := fiber.New()
	app.Post("/revoke", authHandler.Revoke)

	t.Run("success even for garbage tokens", func(t *testing.T) {
		input := dto.RevokeInput{Token: "never-was-a-token"}

		m.blacklist.EXPECT().Revoke(gomock.Any(), "never-was-a-token").Return(nil)

		body, _ := json.Marshal(input)
		req := httptest.NewRequest("POST", "/revoke", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token field", func(t *testing.T) {
		body, _ := json.Marshal(fiber.Map{})
		req := httptest.NewRequest("POST", "/revoke", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginHistoryEndpoint(t *testing.T) {
	authHandler, m := newTestHandler(t)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	t.Run("requires bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/users/login-history", nil)

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		m.tokens.EXPECT().ValidateForAuth(gomock.Any(), "revoked-token").
			Return("", autherror.ErrTokenRevoked)

		req := httptest.NewRequest("GET", "/api/v1/users/login-history", nil)
		req.Header.Set("Authorization", "Bearer revoked-token")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("returns the caller's history", func(t *testing.T) {
		m.tokens.EXPECT().ValidateForAuth(gomock.Any(), "access-token").Return("alice", nil)
		m.repo.EXPECT().GetByUsername(gomock.Any(), "alice").
			Return(&domain.User{ID: 7, Username: "alice", Active: true}, nil)
		m.repo.EXPECT().GetLoginHistory(gomock.Any(), int64(7), 5).
			Return([]domain.LoginHistoryEntry{{ID: 1, UserID: 7}}, nil)

		req := httptest.NewRequest("GET", "/api/v1/users/login-history?limit=5", nil)
		req.Header.Set("Authorization", "Bearer access-token")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out []dto.LoginHistoryOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Len(t, out, 1)
	})
}
