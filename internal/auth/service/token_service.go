package service

//go:generate mockgen -destination=../../mocks/mock_token_provider.go -package=mocks github.com/fJavierPC/user-auth-microservice/internal/auth/service TokenProvider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fJavierPC/user-auth-microservice/internal/auth/domain"
	autherror "github.com/fJavierPC/user-auth-microservice/internal/errors"
	"github.com/fJavierPC/user-auth-microservice/pkg/constant"
)

type TokenProvider interface {
	IssueAccessToken(subject string) (string, error)
	IssueRefreshToken(subject string) (string, error)
	Decode(tokenString string) (*JWTCustomClaims, error)
	ValidateForAuth(ctx context.Context, tokenString string) (string, error)
}

// TokenConfig is the immutable signing configuration handed to the token
// service at construction. The service never reads ambient process state.
type TokenConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type TokenService struct {
	cfg       TokenConfig
	blacklist domain.TokenBlacklist
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

func NewTokenService(cfg TokenConfig, blacklist domain.TokenBlacklist) *TokenService {
	if cfg.AccessExpiry == 0 {
		cfg.AccessExpiry = constant.DefaultAccessExpiryMin * time.Minute
	}
	if cfg.RefreshExpiry == 0 {
		cfg.RefreshExpiry = constant.DefaultRefreshExpiryMin * time.Minute
	}

	return &TokenService{cfg: cfg, blacklist: blacklist}
}

func (ts *TokenService) IssueAccessToken(subject string) (string, error) {
	return ts.issue(subject, constant.TokenTypeAccess, ts.cfg.AccessExpiry)
}

func (ts *TokenService) IssueRefreshToken(subject string) (string, error) {
	return ts.issue(subject, constant.TokenTypeRefresh, ts.cfg.RefreshExpiry)
}

func (ts *TokenService) issue(subject, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()

	claims := JWTCustomClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// Decode parses and validates the given token string. Expired tokens map to
// ErrTokenExpired, everything else that fails maps to ErrInvalidToken.
func (ts *TokenService) Decode(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.cfg.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.ErrTokenExpired
		}
		return nil, autherror.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

// ValidateForAuth is the gate used by every authenticated request: blacklist
// membership first, then signature and expiry. An expired-but-well-formed
// token is blacklisted on first sighting so the same string can never be
// replayed; a malformed token is rejected without being blacklisted.
func (ts *TokenService) ValidateForAuth(ctx context.Context, tokenString string) (string, error) {
	revoked, err := ts.blacklist.IsRevoked(ctx, tokenString)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", autherror.ErrTokenRevoked
	}

	claims, err := ts.Decode(tokenString)
	if err != nil {
		if errors.Is(err, autherror.ErrTokenExpired) {
			if revErr := ts.blacklist.Revoke(ctx, tokenString); revErr != nil {
				return "", revErr
			}
		}
		return "", err
	}

	return claims.Subject, nil
}
