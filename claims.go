package storefront

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the narrow view of the upstream token payload the
// storefront cares about. Everything else in the payload is ignored.
type SessionClaims struct {
	UID       string `json:"id"`
	UserName  string `json:"name"`
	UserEmail string `json:"email"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) UserID() string {
	return c.UID
}

func (c *SessionClaims) Name() string {
	return c.UserName
}

func (c *SessionClaims) Email() string {
	return c.UserEmail
}

// IssuedAtTime returns the iat claim, zero when absent.
func (c *SessionClaims) IssuedAtTime() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}
