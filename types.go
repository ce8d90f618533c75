package storefront

import (
	"context"
	"fmt"

	"github.com/goliatone/go-router"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// SessionStore holds the browser facing session state. The token cookie is
// the single source of truth for "logged in"; there is no server side
// session record.
type SessionStore interface {
	Get(c router.Context) string
	Set(c router.Context, token string)
	Clear(c router.Context)
	Identity(c router.Context) string
	SetIdentity(c router.Context, payload string)
	OnChange(hook SessionChangeHook)
}

// UpstreamAuthenticator is the slice of the commerce API the session
// manager needs. The gateway auth client implements it.
type UpstreamAuthenticator interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	VerifyToken(ctx context.Context, token string) error
}

// Config holds storefront session options
type Config interface {
	GetAPIBaseURL() string
	GetCookieName() string
	GetIdentityCookieName() string
	GetLoginRoute() string
	GetLandingRoute() string
	GetCookieDuration() int
	GetRejectedRouteKey() string
	GetRejectedRouteDefault() string
}

// DefaultLogger returns the fmt backed logger used when none is injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] STOREFRONT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] STOREFRONT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] STOREFRONT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] STOREFRONT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
