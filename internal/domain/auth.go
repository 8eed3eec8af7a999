package domain

import "time"

// SessionClaims identifies a signed-in dashboard user.
type SessionClaims struct {
	UserID int64
	Email  string
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(claims SessionClaims, expiry time.Duration) (string, error)
}

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*SessionClaims, error)
}
