package staff

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("staff: session not found")
	ErrSessionExpired  = errors.New("staff: session expired")
)

// Session is a bearer token issued on staff login. The token itself is the
// store key; only its hash leaves the process in log output.
type Session struct {
	Token     string
	AccountID ID
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type SessionStore interface {
	Put(ctx context.Context, session Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}
