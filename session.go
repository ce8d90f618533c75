package storefront

import (
	"sync"
	"time"

	"github.com/goliatone/go-router"
)

var _ SessionStore = &CookieSessionStore{}

// SessionChange describes a mutation of the session cookie.
type SessionChange struct {
	Token   string
	Cleared bool
}

// SessionChangeHook observes session mutations. Hooks run synchronously on
// the request path, keep them cheap.
type SessionChangeHook func(change SessionChange)

// CookieSessionStore keeps the session token in an HTTP only cookie. The
// cookie is the entire session state: its absence means logged out, its
// presence means logged in, regardless of what the token decodes to.
type CookieSessionStore struct {
	cfg      Config
	duration time.Duration
	Logger   Logger

	mu    sync.RWMutex
	hooks []SessionChangeHook
}

type SessionStoreOption func(*CookieSessionStore)

func WithSessionLogger(logger Logger) SessionStoreOption {
	return func(s *CookieSessionStore) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

func NewCookieSessionStore(cfg Config, opts ...SessionStoreOption) *CookieSessionStore {
	duration := 24 * time.Hour
	if cfg.GetCookieDuration() > 0 {
		duration = time.Duration(cfg.GetCookieDuration()) * time.Hour
	}

	s := &CookieSessionStore{
		cfg:      cfg,
		duration: duration,
		Logger:   defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

func (s *CookieSessionStore) Get(c router.Context) string {
	return c.Cookies(s.cfg.GetCookieName())
}

func (s *CookieSessionStore) Set(c router.Context, token string) {
	s.setCookie(c, s.cfg.GetCookieName(), token, s.duration)
	s.notify(SessionChange{Token: token})
}

// Clear removes the token cookie along with the companion identity cookie
// left behind by the OAuth fallback.
func (s *CookieSessionStore) Clear(c router.Context) {
	s.cookieDel(c, s.cfg.GetCookieName())
	s.cookieDel(c, s.cfg.GetIdentityCookieName())
	s.notify(SessionChange{Cleared: true})
}

func (s *CookieSessionStore) Identity(c router.Context) string {
	return c.Cookies(s.cfg.GetIdentityCookieName())
}

func (s *CookieSessionStore) SetIdentity(c router.Context, payload string) {
	s.setCookie(c, s.cfg.GetIdentityCookieName(), payload, s.duration)
}

func (s *CookieSessionStore) OnChange(hook SessionChangeHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

func (s *CookieSessionStore) notify(change SessionChange) {
	s.mu.RLock()
	hooks := make([]SessionChangeHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.RUnlock()

	for _, hook := range hooks {
		hook(change)
	}
}

func (s *CookieSessionStore) setCookie(c router.Context, name, val string, duration time.Duration) {
	setSessionCookie(c, name, val, duration)
}

func (s *CookieSessionStore) cookieDel(c router.Context, name string) {
	deleteSessionCookie(c, name)
}

func setSessionCookie(c router.Context, name, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func deleteSessionCookie(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
