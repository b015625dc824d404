package postgres

import (
	"context"
	"fmt"
)

// PostgresBlacklist stores revoked token strings in the blacklisted_tokens
// table. A token, once present, is revoked forever.
type PostgresBlacklist struct {
	db DB
}

func NewPostgresBlacklist(db DB) *PostgresBlacklist {
	return &PostgresBlacklist{db: db}
}

func (b *PostgresBlacklist) Revoke(ctx context.Context, token string) error {
	query := `
		INSERT INTO blacklisted_tokens (token)
		VALUES ($1)
		ON CONFLICT (token) DO NOTHING;
	`
	if _, err := b.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (b *PostgresBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token = $1);`

	var revoked bool
	if err := b.db.QueryRow(ctx, query, token).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return revoked, nil
}
