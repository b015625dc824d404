package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fJavierPC/user-auth-microservice/internal/auth/domain"
	"github.com/fJavierPC/user-auth-microservice/internal/auth/dto"
	autherror "github.com/fJavierPC/user-auth-microservice/internal/errors"
	"github.com/fJavierPC/user-auth-microservice/pkg/constant"
)

type UserService struct {
	repo      domain.UserRepository
	tokens    TokenProvider
	blacklist domain.TokenBlacklist
	log       zerolog.Logger
}

func NewUserService(repo domain.UserRepository, tokens TokenProvider,
	blacklist domain.TokenBlacklist, log zerolog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		tokens:    tokens,
		blacklist: blacklist,
		log:       log,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hashed),
		Active:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and mints an access/refresh token pair. An
// unknown username and a wrong password both come back as
// ErrInvalidCredentials so callers cannot enumerate accounts. The attempt
// that crosses the lockout threshold still reports invalid credentials;
// ErrAccountLocked starts with the next attempt.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*domain.User, *dto.TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, autherror.ErrInvalidCredentials
	}

	if user.Locked {
		return nil, nil, autherror.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		if err := s.recordFailedAttempt(ctx, user); err != nil {
			return nil, nil, err
		}
		return nil, nil, autherror.ErrInvalidCredentials
	}

	if err := s.repo.ResetFailedAttempts(ctx, user.ID); err != nil {
		return nil, nil, err
	}

	if err := s.repo.AppendLoginHistory(ctx, user.ID, time.Now().UTC(),
		optional(input.IPAddress), optional(input.UserAgent)); err != nil {
		return nil, nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, nil, err
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, nil, err
	}

	return user, &dto.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) recordFailedAttempt(ctx context.Context, user *domain.User) error {
	count, err := s.repo.IncrementFailedAttempts(ctx, user.ID)
	if err != nil {
		return err
	}

	if count >= constant.MaxFailedLoginAttempts {
		if err := s.repo.SetLocked(ctx, user.ID, true); err != nil {
			return err
		}
		s.log.Warn().Str("username", user.Username).Int("failed_attempts", count).
			Msg("account locked after repeated failed logins")
	}

	return nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is not rotated or revoked.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	subject, err := s.tokens.ValidateForAuth(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByUsername(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrAccountNotFound
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// Revoke blacklists any presented token string, valid or not. The contract is
// that this exact string may never authenticate again.
func (s *UserService) Revoke(ctx context.Context, token string) error {
	return s.blacklist.Revoke(ctx, token)
}

// Authorize validates a presented token and resolves its subject to a live
// account.
func (s *UserService) Authorize(ctx context.Context, token string) (*domain.UserContext, error) {
	subject, err := s.tokens.ValidateForAuth(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByUsername(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrAccountNotFound
	}

	return &domain.UserContext{UserID: user.ID, Username: user.Username}, nil
}

func (s *UserService) LoginHistory(ctx context.Context, userID int64,
	limit int) ([]domain.LoginHistoryEntry, error) {
	if limit <= 0 {
		limit = constant.DefaultLoginHistoryLimit
	}

	return s.repo.GetLoginHistory(ctx, userID, limit)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
