package coordinator

import (
	"time"

	"github.com/tenantflow/coordinator/internal/cookie"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSessionTimeout sets the sliding session lifetime. Each validated
// request pushes the session expiry this far into the future.
func WithSessionTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		c.sessionTimeout = timeout
	}
}

// WithBridgeWindow sets how old a bridge request timestamp may be before it
// is rejected as a replay.
func WithBridgeWindow(window time.Duration) Option {
	return func(c *Coordinator) {
		c.bridgeWindow = window
	}
}

// WithSigninURL sets where failed bridge exchanges and unauthenticated
// users are redirected.
func WithSigninURL(url string) Option {
	return func(c *Coordinator) {
		c.signinURL = url
	}
}

// WithOnboardingURL sets the base path onboarding steps are served under.
func WithOnboardingURL(url string) Option {
	return func(c *Coordinator) {
		c.onboardingURL = url
	}
}

// WithAllowedRedirects adds path patterns to the bridge redirect
// allow-list. A pattern is matched segment-wise; a "*" segment matches any
// single segment.
func WithAllowedRedirects(patterns ...string) Option {
	return func(c *Coordinator) {
		c.allowRedirects = append(c.allowRedirects, patterns...)
	}
}

// WithAdminToken sets the elevated credential required by the
// force-complete endpoint. Without it the endpoint is disabled.
func WithAdminToken(token string) Option {
	return func(c *Coordinator) {
		c.adminToken = token
	}
}

// WithLogHandler overrides how handler errors are logged.
func WithLogHandler(h LogHandler) Option {
	return func(c *Coordinator) {
		c.handle = h
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(c *Coordinator) {
		c.cookieOptions = append(c.cookieOptions, cookie.WithCookieName(name))
	}
}

// WithCookieDomain scopes the session cookie to a parent domain so it is
// shared across tenant subdomains.
func WithCookieDomain(domain string) Option {
	return func(c *Coordinator) {
		c.cookieOptions = append(c.cookieOptions, cookie.WithCookieDomain(domain))
	}
}

// WithInsecureCookies drops the Secure attribute from all cookies for
// plain-http local development.
func WithInsecureCookies() Option {
	return func(c *Coordinator) {
		c.cookieOptions = append(c.cookieOptions, cookie.WithInsecureCookies())
	}
}
