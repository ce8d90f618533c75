package storefront

import (
	"github.com/kelseyhightower/envconfig"
)

var _ Config = &EnvConfig{}

// EnvConfig is the environment backed Config implementation. Defaults match
// the storefront the gateway was built for so a bare process works against
// the hosted commerce API.
type EnvConfig struct {
	APIBaseURL           string `envconfig:"API_BASE_URL" default:"https://ecommerce.routemisr.com/api/v1/"`
	CookieName           string `envconfig:"SESSION_COOKIE" default:"token"`
	IdentityCookieName   string `envconfig:"IDENTITY_COOKIE" default:"google_user"`
	LoginRoute           string `envconfig:"LOGIN_ROUTE" default:"/login"`
	LandingRoute         string `envconfig:"LANDING_ROUTE" default:"/home"`
	CookieDuration       int    `envconfig:"COOKIE_DURATION_HOURS" default:"24"`
	RejectedRouteKey     string `envconfig:"REJECTED_ROUTE_KEY" default:"rejected_route"`
	RejectedRouteDefault string `envconfig:"REJECTED_ROUTE_DEFAULT" default:"/home"`
	ListenAddr           string `envconfig:"LISTEN_ADDR" default:":8572"`
}

// LoadConfig reads STOREFRONT_* environment variables.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := envconfig.Process("storefront", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EnvConfig) GetAPIBaseURL() string {
	return c.APIBaseURL
}

func (c *EnvConfig) GetCookieName() string {
	return c.CookieName
}

func (c *EnvConfig) GetIdentityCookieName() string {
	return c.IdentityCookieName
}

func (c *EnvConfig) GetLoginRoute() string {
	return c.LoginRoute
}

func (c *EnvConfig) GetLandingRoute() string {
	return c.LandingRoute
}

func (c *EnvConfig) GetCookieDuration() int {
	return c.CookieDuration
}

func (c *EnvConfig) GetRejectedRouteKey() string {
	return c.RejectedRouteKey
}

func (c *EnvConfig) GetRejectedRouteDefault() string {
	return c.RejectedRouteDefault
}

func (c *EnvConfig) GetListenAddr() string {
	return c.ListenAddr
}
