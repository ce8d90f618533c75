package storefront

import (
	"context"

	"github.com/goliatone/go-router"
)

// SessionManager orchestrates the session lifecycle over the cookie store
// and the upstream API: credential sign-in, sign-out and the bootstrap
// verification that runs when the SPA loads with a stored cookie.
type SessionManager struct {
	upstream UpstreamAuthenticator
	store    SessionStore
	cfg      Config
	machine  *SessionStateMachine
	inflight *InflightGroup
	activity ActivitySink
	Logger   Logger
}

type SessionManagerOption func(*SessionManager)

func WithManagerLogger(logger Logger) SessionManagerOption {
	return func(m *SessionManager) {
		if logger != nil {
			m.Logger = logger
		}
	}
}

func WithManagerStateMachine(machine *SessionStateMachine) SessionManagerOption {
	return func(m *SessionManager) {
		if machine != nil {
			m.machine = machine
		}
	}
}

func WithManagerActivitySink(sink ActivitySink) SessionManagerOption {
	return func(m *SessionManager) {
		m.activity = normalizeActivitySink(sink)
	}
}

func WithManagerInflight(group *InflightGroup) SessionManagerOption {
	return func(m *SessionManager) {
		if group != nil {
			m.inflight = group
		}
	}
}

func NewSessionManager(upstream UpstreamAuthenticator, store SessionStore, cfg Config, opts ...SessionManagerOption) *SessionManager {
	m := &SessionManager{
		upstream: upstream,
		store:    store,
		cfg:      cfg,
		machine:  NewSessionStateMachine(),
		inflight: NewInflightGroup(),
		activity: noopActivitySink{},
		Logger:   defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Store exposes the underlying session store for guard wiring.
func (m *SessionManager) Store() SessionStore {
	return m.store
}

// Machine exposes the session state machine.
func (m *SessionManager) Machine() *SessionStateMachine {
	return m.machine
}

// SignIn exchanges credentials with the upstream and stores the returned
// token. A newer sign-in for the same email supersedes an in-flight one.
// The error from a rejected exchange carries the upstream's message so the
// caller can surface it inline; nothing is stored on failure.
func (m *SessionManager) SignIn(c router.Context, email, password string) error {
	m.transition(c.Context(), SessionStateAuthenticating, "credential sign-in")

	var token string
	key := ActionKey("auth.signin", email)
	err := m.inflight.Do(c.Context(), key, func(ctx context.Context) error {
		t, err := m.upstream.SignIn(ctx, email, password)
		token = t
		return err
	})

	if err != nil {
		m.Logger.Error("sign-in rejected: %s", err)
		m.transition(c.Context(), SessionStateAnonymous, "sign-in rejected")
		m.record(c.Context(), ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Actor:     ActorRef{ID: email, Type: "user"},
		})
		return err
	}

	m.store.Set(c, token)
	m.transition(c.Context(), SessionStateAuthenticated, "sign-in accepted")

	userID := email
	if claims, derr := DecodeToken(token); derr == nil {
		userID = claims.UserID()
	}
	m.record(c.Context(), ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		Actor:     ActorRef{ID: email, Type: "user"},
		UserID:    userID,
	})

	return nil
}

// SignOut clears the session cookie pair. Purely local, the upstream is
// never told.
func (m *SessionManager) SignOut(c router.Context) {
	m.store.Clear(c)
	m.transition(c.Context(), SessionStateAnonymous, "sign-out")
	m.record(c.Context(), ActivityEvent{
		EventType: ActivityEventLogout,
		Actor:     ActorRef{Type: "user"},
	})
}

// Bootstrap decides whether a stored token still grants a session. Tokens
// synthesized by the OAuth fallback are trusted unconditionally; everything
// else is checked against the upstream once. A rejected token deletes the
// cookie and the caller lands in the anonymous flow, no error is raised for
// the user.
func (m *SessionManager) Bootstrap(c router.Context) bool {
	token := m.store.Get(c)
	if token == "" {
		return false
	}

	if IsFallbackToken(token) {
		m.Logger.Warn("trusting fallback token without upstream verification")
		m.transition(c.Context(), SessionStateAuthenticated, "fallback token restore")
		return true
	}

	if err := m.upstream.VerifyToken(c.Context(), token); err != nil {
		m.Logger.Info("stored token rejected, clearing session: %s", err)
		m.store.Clear(c)
		m.transition(c.Context(), SessionStateExpired, "verification failed")
		m.transition(c.Context(), SessionStateAnonymous, "session cleared")
		m.record(c.Context(), ActivityEvent{
			EventType: ActivityEventSessionExpired,
			Actor:     ActorRef{Type: "bootstrap"},
		})
		return false
	}

	m.transition(c.Context(), SessionStateAuthenticated, "verified token restore")
	return true
}

// SetRedirect remembers the route a guard rejected so a later sign-in can
// return to it.
func (m *SessionManager) SetRedirect(c router.Context) {
	rememberRejectedRoute(c, m.cfg)
}

// GetRedirect consumes the remembered rejected route, falling back to def.
func (m *SessionManager) GetRedirect(c router.Context, def ...string) string {
	rejectedRoute := m.cfg.GetRejectedRouteKey()
	r := c.Cookies(rejectedRoute)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return m.cfg.GetRejectedRouteDefault()
	}
	deleteSessionCookie(c, rejectedRoute)
	return r
}

func (m *SessionManager) transition(ctx context.Context, target SessionState, reason string) {
	if m.machine == nil {
		return
	}
	if err := m.machine.Transition(ctx, ActorRef{Type: "session_manager"}, target,
		WithTransitionReason(reason),
	); err != nil {
		m.Logger.Debug("state transition skipped: %v", err)
	}
}

func (m *SessionManager) record(ctx context.Context, event ActivityEvent) {
	if err := normalizeActivitySink(m.activity).Record(ctx, event); err != nil {
		m.Logger.Warn("activity sink error: %v", err)
	}
}
