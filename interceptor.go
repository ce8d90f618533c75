package storefront

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Messages surfaced to the SPA for non-auth failures. Auth failures never
// produce a message, they produce the login redirect.
const (
	msgAccessDenied = "Access denied"
	msgNotFound     = "Resource not found"
	msgServerError  = "Server error. Please try again later"
	msgGenericError = "Something went wrong"
	errorMessageKey = "message"
)

// ReactiveLogoutOption configures the interceptor.
type ReactiveLogoutOption func(*reactiveLogout)

type reactiveLogout struct {
	store       SessionStore
	cfg         Config
	machine     *SessionStateMachine
	activity    ActivitySink
	logger      Logger
	silentPaths []string
}

// WithInterceptorLogger overrides the interceptor logger.
func WithInterceptorLogger(logger Logger) ReactiveLogoutOption {
	return func(r *reactiveLogout) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInterceptorStateMachine lets the interceptor drive the session
// lifecycle into expired on a 401.
func WithInterceptorStateMachine(machine *SessionStateMachine) ReactiveLogoutOption {
	return func(r *reactiveLogout) {
		r.machine = machine
	}
}

// WithInterceptorActivitySink records session.expired events.
func WithInterceptorActivitySink(sink ActivitySink) ReactiveLogoutOption {
	return func(r *reactiveLogout) {
		r.activity = normalizeActivitySink(sink)
	}
}

// WithSilentPaths suppresses error logging for background features whose
// failures the user should not be shouted at about. The redirect on 401
// still happens.
func WithSilentPaths(paths ...string) ReactiveLogoutOption {
	return func(r *reactiveLogout) {
		r.silentPaths = append(r.silentPaths, paths...)
	}
}

// ReactiveLogout is the single centralized reaction to an expired or
// rejected session. Any handler error in the auth category with a 401 code
// clears the cookie and redirects to the login route; every other error is
// rendered as the JSON message the SPA shows inline.
//
// Sessions holding a fallback token are the exception: they were never
// issued by the upstream, so an upstream 401 does not expire them. They
// get the redirect and keep their cookies.
func ReactiveLogout(store SessionStore, cfg Config, opts ...ReactiveLogoutOption) router.MiddlewareFunc {
	r := &reactiveLogout{
		store:    store,
		cfg:      cfg,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			return r.handle(c, err)
		}
	}
}

func (r *reactiveLogout) handle(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	silent := r.isSilent(c.OriginalURL())

	if IsAuthRejected(richErr) {
		return r.expireSession(c, richErr)
	}

	if !silent {
		r.logger.Info(
			"request error: %s category=%s details=%s",
			richErr.Message,
			richErr.Category,
			print.MaybePrettyJSON(richErr.Metadata),
		)
	}

	status, message := statusMessageFor(richErr)
	return c.JSON(status, map[string]any{
		errorMessageKey: message,
	})
}

func (r *reactiveLogout) expireSession(c router.Context, richErr *errors.Error) error {
	if IsFallbackToken(r.store.Get(c)) {
		r.logger.Warn(
			"upstream rejected a fallback session, keeping it: %s path=%s",
			richErr.Message,
			c.OriginalURL(),
		)
		return c.Redirect(r.cfg.GetLoginRoute(), redirectStatus(c))
	}

	r.logger.Info(
		"session rejected by upstream, logging out: %s path=%s",
		richErr.Message,
		c.OriginalURL(),
	)

	r.store.Clear(c)

	if r.machine != nil {
		if terr := r.machine.Transition(c.Context(), ActorRef{Type: "interceptor"}, SessionStateExpired,
			WithTransitionReason("upstream 401"),
		); terr != nil {
			r.logger.Debug("state transition skipped: %v", terr)
		}
	}

	if aerr := r.activity.Record(c.Context(), ActivityEvent{
		EventType: ActivityEventSessionExpired,
		Actor:     ActorRef{Type: "interceptor"},
		Metadata: map[string]any{
			"path": c.OriginalURL(),
		},
	}); aerr != nil {
		r.logger.Warn("activity sink error: %v", aerr)
	}

	return c.Redirect(r.cfg.GetLoginRoute(), redirectStatus(c))
}

func (r *reactiveLogout) isSilent(path string) bool {
	for _, p := range r.silentPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

func statusMessageFor(richErr *errors.Error) (int, string) {
	switch richErr.Code {
	case errors.CodeForbidden:
		return http.StatusForbidden, msgAccessDenied
	case errors.CodeNotFound:
		return http.StatusNotFound, msgNotFound
	case errors.CodeInternal:
		return http.StatusInternalServerError, msgServerError
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest, richErr.Message
	case errors.CategoryOperation:
		return http.StatusBadGateway, msgServerError
	}

	if richErr.Message != "" {
		return http.StatusBadRequest, richErr.Message
	}
	return http.StatusInternalServerError, msgGenericError
}
