// Package config holds the coordinator's environment configuration.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Secure cookie keys. The hash key authenticates cookie values and the
	// block key encrypts them; both must be stable across instances.
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY" required:"true"`
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY" required:"true"`
	CookieDomain   string `envconfig:"COOKIE_DOMAIN" default:""`

	OIDCIssuer       string `envconfig:"OIDC_ISSUER" required:"true"`
	OIDCClientID     string `envconfig:"OIDC_CLIENT_ID" required:"true"`
	OIDCClientSecret string `envconfig:"OIDC_CLIENT_SECRET" required:"true"`
	OIDCRedirectURL  string `envconfig:"OIDC_REDIRECT_URL" required:"true"`

	SigninURL      string        `envconfig:"SIGNIN_URL" default:"/auth/signin"`
	OnboardingURL  string        `envconfig:"ONBOARDING_URL" default:"/onboarding"`
	SessionTimeout time.Duration `envconfig:"SESSION_TIMEOUT" default:"30m"`
	BridgeWindow   time.Duration `envconfig:"BRIDGE_WINDOW" default:"60s"`

	// AllowedRedirects is a comma-separated list of path patterns the
	// session bridge may redirect to. Empty keeps the built-in defaults.
	AllowedRedirects []string `envconfig:"ALLOWED_REDIRECTS"`

	// AdminToken guards the force-complete endpoint. Leaving it unset
	// disables the endpoint.
	AdminToken string `envconfig:"ADMIN_TOKEN" default:""`

	// InsecureCookies drops the Secure cookie attribute for local
	// development over plain HTTP.
	InsecureCookies bool `envconfig:"INSECURE_COOKIES" default:"false"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
