package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fJavierPC/user-auth-microservice/internal/auth/domain"
	autherror "github.com/fJavierPC/user-auth-microservice/internal/errors"
)

const uniqueViolationCode = "23505"

// DB is the subset of pgxpool.Pool used by the repository. pgxmock pools
// satisfy it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT user_id, username, password_hash, is_active, failed_attempts, is_locked
		FROM users
		WHERE username = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, username)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Active,
		&user.FailedAttempts, &user.Locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, is_active, failed_attempts, is_locked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id;
	`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Active, user.FailedAttempts, user.Locked).
		Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return autherror.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// IncrementFailedAttempts bumps the counter in a single statement so
// concurrent failed logins never under-count.
func (r *PostgresRepository) IncrementFailedAttempts(ctx context.Context, userID int64) (int, error) {
	query := `
		UPDATE users
		SET failed_attempts = failed_attempts + 1
		WHERE user_id = $1
		RETURNING failed_attempts;
	`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment failed attempts: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) ResetFailedAttempts(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET failed_attempts = 0 WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to reset failed attempts: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetLocked(ctx context.Context, userID int64, locked bool) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET is_locked = $2 WHERE user_id = $1`, userID, locked)
	if err != nil {
		return fmt.Errorf("failed to set lock state: %w", err)
	}

	return nil
}

func (r *PostgresRepository) AppendLoginHistory(ctx context.Context, userID int64, at time.Time,
	ip, userAgent *string) error {
	query := `
		INSERT INTO user_login_history (user_id, login_timestamp, ip_address, user_agent)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.db.Exec(ctx, query, userID, at, ip, userAgent)
	if err != nil {
		return fmt.Errorf("failed to append login history: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetLoginHistory(ctx context.Context, userID int64,
	limit int) ([]domain.LoginHistoryEntry, error) {
	query := `
		SELECT id, user_id, login_timestamp, ip_address, user_agent
		FROM user_login_history
		WHERE user_id = $1
		ORDER BY login_timestamp DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get login history: %w", err)
	}
	defer rows.Close()

	var entries []domain.LoginHistoryEntry
	for rows.Next() {
		var e domain.LoginHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.LoginTimestamp, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, fmt.Errorf("failed to scan login history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read login history: %w", err)
	}

	return entries, nil
}
