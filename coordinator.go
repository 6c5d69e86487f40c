// Package coordinator manages browser sessions and tenant onboarding state
// for a multi-tenant application. It owns the encrypted session cookie, the
// one-time session bridge used to hand a signed-in session from the
// marketing site to the application, the onboarding state machine, and the
// route guard that decides where an authenticated user belongs.
package coordinator

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/tenantflow/coordinator/internal/cookie"
	"github.com/tenantflow/coordinator/oidc"
)

const (
	defaultSessionTimeout = 30 * time.Minute
	defaultBridgeWindow   = 60 * time.Second
	defaultSigninURL      = "/auth/signin"
	defaultOnboardingURL  = "/onboarding"
)

// Coordinator wires session storage, the cookie codec, and the identity
// provider into the HTTP surface.
type Coordinator struct {
	storage        Storage
	auth           oidc.Authenticator
	cookies        *cookie.Client
	handle         LogHandler
	sessionTimeout time.Duration
	bridgeWindow   time.Duration
	signinURL      string
	onboardingURL  string
	allowRedirects []string
	adminToken     string
	cookieOptions  []cookie.Option
}

// New returns a Coordinator backed by storage, authenticating against auth,
// and sealing cookies with secureCookie.
func New(storage Storage, auth oidc.Authenticator, secureCookie *securecookie.SecureCookie, opts ...Option) *Coordinator {
	c := &Coordinator{
		storage:        storage,
		auth:           auth,
		handle:         handle,
		sessionTimeout: defaultSessionTimeout,
		bridgeWindow:   defaultBridgeWindow,
		signinURL:      defaultSigninURL,
		onboardingURL:  defaultOnboardingURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cookies = cookie.NewClient(secureCookie, c.cookieOptions...)

	return c
}

// Routes mounts the coordinator's HTTP surface on r.
func (c *Coordinator) Routes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", c.Login())
		r.Get("/callback", c.CallbackOIDC())
		r.Post("/session-bridge", c.SessionBridge())

		r.Group(func(r chi.Router) {
			r.Use(c.StartSession, c.ValidateSession)
			r.Get("/authenticated", c.Authenticated())
			r.Get("/bridge-token", c.BridgeToken())
			r.Post("/logout", c.Logout())
		})
	})

	r.Route("/onboarding", func(r chi.Router) {
		r.Use(c.StartSession, c.ValidateSession, c.SetXSRFToken, c.ValidateXSRFToken)
		r.Get("/status", c.OnboardingStatus())
		r.Post("/advance", c.AdvanceOnboarding())
		r.Post("/force-complete", c.ForceCompleteOnboarding())
	})

	// Resolve reads the cookie itself: an anonymous user is redirected to
	// sign-in, never answered 401.
	r.Get("/resolve", c.Resolve())
}
