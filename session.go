package coordinator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/internal/fingerprint"
	"github.com/tenantflow/coordinator/internal/types"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage"
)

// activityUpdateInterval rate limits session refresh writes.
const activityUpdateInterval = 5 * time.Second

// StartSession decodes the session cookie and stores the sessionID in the
// request context. Requests without a decodable cookie are unauthorized;
// sessions are only ever minted by the OIDC callback or the session bridge.
func (c *Coordinator) StartSession(next http.Handler) http.Handler {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		cval, ok := c.cookies.ReadAuthCookie(r)
		if !ok {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewUnauthorizedMessage("no session"))
		}
		sessionID, validSessionID := types.ValidSessionID(cval[types.SCSessionID])
		if !validSessionID {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewUnauthorizedMessage("invalid session"))
		}

		// Upgrade cookie to SameSite=Strict
		// since CallbackOIDC() sets it to None to allow OAuth flow to work
		if cval[types.SCSameSiteStrict] != strconv.FormatBool(true) {
			// Bound the rewritten cookie to the remaining session
			// lifetime so the upgrade can not outlive the session.
			maxAge := c.sessionTimeout
			if exp, err := time.Parse(time.UnixDate, cval[types.SCExpiration]); err == nil {
				maxAge = time.Until(exp)
				if maxAge <= 0 {
					return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewUnauthorizedMessage("session expired"))
				}
			}
			if err := c.cookies.WriteAuthCookie(w, true, cval, maxAge); err != nil {
				return httpio.NewEncoder(w).ClientMessage(ctx, err)
			}
		}

		// Store sessionID in context
		ctx = context.WithValue(ctx, types.CTXSessionID, sessionID)

		// Add session ID to logging context
		l := logger.FromCtx(ctx).AddRequestAttribute("session ID", sessionID).
			WithAttributes().AddAttribute("session ID", sessionID).Logger()
		ctx = logger.NewCtx(ctx, l)

		next.ServeHTTP(w, r.WithContext(ctx))

		return nil
	})
}

// ValidateSession checks the session against the store, slides its expiry
// forward, and stores the session info in the request context. StartSession
// must run first.
func (c *Coordinator) ValidateSession(next http.Handler) http.Handler {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		ctx, err := c.validateSession(ctx, w, r)
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		next.ServeHTTP(w, r.WithContext(ctx))

		return nil
	})
}

func (c *Coordinator) validateSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	sessInfo, err := c.storage.ValidateSession(ctx, sessioninfo.IDFromCtx(ctx), fingerprint.Hash(r))
	switch {
	case err == nil:
	case errors.Is(err, sessionstorage.ErrExpired):
		return ctx, httpio.NewUnauthorizedMessage("session expired")
	case errors.Is(err, sessionstorage.ErrNotFound), errors.Is(err, sessionstorage.ErrFingerprintMismatch):
		return ctx, httpio.NewUnauthorizedMessageWithError(err, "invalid session")
	default:
		// Store trouble is not an authentication failure. Fail closed
		// without telling the client its session is gone.
		return ctx, httpio.NewServiceUnavailableMessageWithError(err, "session store unavailable")
	}

	// Slide expiry forward (rate limit refresh writes)
	if time.Since(sessInfo.UpdatedAt) > activityUpdateInterval {
		sessInfo, err = c.storage.RefreshSession(ctx, sessInfo.ID, c.sessionTimeout)
		if err != nil {
			return ctx, errors.Wrap(err, "sessionstorage.Client.RefreshSession()")
		}

		// Keep the cookie's Max-Age in step with the refreshed expiry.
		cval := map[types.SCKey]string{
			types.SCSessionID:      sessInfo.ID.String(),
			types.SCFingerprint:    sessInfo.Fingerprint,
			types.SCSameSiteStrict: strconv.FormatBool(true),
			types.SCExpiration:     sessInfo.ExpiresAt.Format(time.UnixDate),
		}
		if err := c.cookies.WriteAuthCookie(w, true, cval, sessInfo.Remaining(time.Now())); err != nil {
			return ctx, errors.Wrap(err, "cookie.Client.WriteAuthCookie()")
		}
	}

	// Store session info in context
	ctx = context.WithValue(ctx, sessioninfo.CtxSessionInfo, sessInfo)

	// Add user to logging context
	l := logger.FromCtx(ctx).AddRequestAttribute("user", sessInfo.UserID).
		WithAttributes().AddAttribute("user", sessInfo.UserID).Logger()

	return logger.NewCtx(ctx, l), nil
}

// Login redirects the user to the identity provider to start sign-in.
func (c *Coordinator) Login() http.HandlerFunc {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		authCodeURL, err := c.auth.AuthCodeURL(w, r.URL.Query().Get("returnUrl"))
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		http.Redirect(w, r, authCodeURL, http.StatusFound)

		return nil
	})
}

// CallbackOIDC is the handler for the callback from the OIDC auth provider.
// On success it creates a session bound to the client fingerprint and sets
// the session cookie with SameSite=None; StartSession upgrades it to Strict
// on the next same-site request.
func (c *Coordinator) CallbackOIDC() http.HandlerFunc {
	type claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
	}

	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		claims := &claims{}
		returnURL, err := c.auth.Verify(ctx, w, r, claims)
		if err != nil {
			http.Redirect(w, r, fmt.Sprintf("%s?message=%s", c.auth.LoginURL(), url.QueryEscape(httpio.Message(err))), http.StatusFound)

			return errors.Wrap(err, "oidc.Authenticator.Verify()")
		}

		clientFingerprint := fingerprint.Hash(r)
		sessInfo, err := c.storage.CreateSession(ctx, sessioninfo.IdentityClaims{UserID: claims.Subject, Email: claims.Email}, clientFingerprint, c.sessionTimeout)
		if err != nil {
			http.Redirect(w, r, fmt.Sprintf("%s?message=%s", c.auth.LoginURL(), url.QueryEscape("Internal Server Error")), http.StatusFound)

			return errors.Wrap(err, "sessionstorage.Client.CreateSession()")
		}

		if _, err := c.cookies.NewAuthCookie(w, false, sessInfo.ID, clientFingerprint, c.sessionTimeout); err != nil {
			http.Redirect(w, r, fmt.Sprintf("%s?message=%s", c.auth.LoginURL(), url.QueryEscape("Internal Server Error")), http.StatusFound)

			return errors.Wrap(err, "cookie.Client.NewAuthCookie()")
		}

		// write new XSRF Token Cookie to match the new SessionID
		c.cookies.RefreshXSRFTokenCookie(w, r, sessInfo.ID, types.XSRFCookieLife)

		http.Redirect(w, r, returnURL, http.StatusFound)

		return nil
	})
}

// Authenticated is the handler that reports if the session is authenticated
func (c *Coordinator) Authenticated() http.HandlerFunc {
	type response struct {
		Authenticated bool   `json:"authenticated"`
		UserID        string `json:"userId,omitempty"`
		TenantID      string `json:"tenantId,omitempty"`
	}

	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		sessInfo := sessioninfo.FromCtx(ctx)

		return httpio.NewEncoder(w).Ok(response{
			Authenticated: true,
			UserID:        sessInfo.UserID,
			TenantID:      sessInfo.TenantID,
		})
	})
}

// Logout revokes the current session and expires the session cookie.
func (c *Coordinator) Logout() http.HandlerFunc {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		if err := c.storage.RevokeSession(ctx, sessioninfo.IDFromCtx(ctx)); err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}
		c.cookies.ExpireAuthCookie(w)

		return httpio.NewEncoder(w).Ok(nil)
	})
}
