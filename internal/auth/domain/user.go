package domain

import "time"

type User struct {
	ID             int64
	Username       string
	PasswordHash   string
	Active         bool
	FailedAttempts int
	Locked         bool
}

// LoginHistoryEntry is an append-only record of a successful login. IP and
// user agent are optional, everything else is set by the store.
type LoginHistoryEntry struct {
	ID             int64
	UserID         int64
	LoginTimestamp time.Time
	IPAddress      *string
	UserAgent      *string
}

// UserContext identifies the authenticated caller of a protected request.
type UserContext struct {
	UserID   int64
	Username string
}
