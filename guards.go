package storefront

import (
	"net/http"
	"time"

	"github.com/goliatone/go-router"
)

// RequireSession admits requests that carry a token cookie. Presence is
// the whole check: fallback tokens pass and nothing is verified against
// the upstream. Everything else is redirected to the login route, with the
// rejected path remembered so a later sign-in can return to it.
func RequireSession(store SessionStore, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if store.Get(c) != "" {
				return next(c)
			}

			rememberRejectedRoute(c, cfg)

			return c.Redirect(cfg.GetLoginRoute(), redirectStatus(c))
		}
	}
}

// AnonymousOnly keeps authenticated sessions away from the login and
// registration surfaces by bouncing them to the landing route.
func AnonymousOnly(store SessionStore, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if store.Get(c) == "" {
				return next(c)
			}
			return c.Redirect(cfg.GetLandingRoute(), redirectStatus(c))
		}
	}
}

func rememberRejectedRoute(c router.Context, cfg Config) {
	c.Cookie(&router.Cookie{
		Name:     cfg.GetRejectedRouteKey(),
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func redirectStatus(c router.Context) int {
	if c.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
