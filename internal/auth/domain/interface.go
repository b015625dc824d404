package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/fJavierPC/user-auth-microservice/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_token_blacklist.go -package=mocks github.com/fJavierPC/user-auth-microservice/internal/auth/domain TokenBlacklist

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	IncrementFailedAttempts(ctx context.Context, userID int64) (int, error)
	ResetFailedAttempts(ctx context.Context, userID int64) error
	SetLocked(ctx context.Context, userID int64, locked bool) error
	AppendLoginHistory(ctx context.Context, userID int64, at time.Time, ip, userAgent *string) error
	GetLoginHistory(ctx context.Context, userID int64, limit int) ([]LoginHistoryEntry, error)
}

// TokenBlacklist records token strings that must never authenticate again.
// Revoke is idempotent; revoking an already-revoked token succeeds.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
