package constant

const (
	// MaxFailedLoginAttempts is the number of consecutive failed logins
	// after which an account is locked.
	MaxFailedLoginAttempts = 3

	// DefaultAccessExpiryMin and DefaultRefreshExpiryMin are the token
	// lifetimes in minutes used when no override is configured.
	DefaultAccessExpiryMin  = 30
	DefaultRefreshExpiryMin = 60

	// DefaultLoginHistoryLimit caps login-history listings when the caller
	// does not supply a limit.
	DefaultLoginHistoryLimit = 10

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	MinUsernameLength = 5
	MaxUsernameLength = 60
	MinPasswordLength = 8
	MaxPasswordLength = 60
)
