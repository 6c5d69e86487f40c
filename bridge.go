package coordinator

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/internal/fingerprint"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage"
)

// Bridge rejection codes, carried to the signin page as ?error=<code> so
// support can distinguish causes.
const (
	BridgeErrInvalidRequest  = "invalid_request"
	BridgeErrRequestExpired  = "request_expired"
	BridgeErrInvalidRedirect = "invalid_redirect"
	BridgeErrInvalidSession  = "invalid_session"
	BridgeErrSessionError    = "session_error"
)

// defaultAllowedRedirects is the allow-list for bridge redirect targets. A
// "*" segment matches any single path segment (the tenant prefix).
var defaultAllowedRedirects = []string{
	"/dashboard",
	"/onboarding",
	"/onboarding/*",
	"/*/dashboard",
}

// SessionBridge hands a session minted during sign-in on the marketing
// origin to the application origin. The caller posts a single-use token,
// the destination it wants, and the time it built the request; the handler
// validates each in order and fails closed at the first failure, answering
// every outcome with a 303 redirect.
func (c *Coordinator) SessionBridge() http.HandlerFunc {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		if err := r.ParseForm(); err != nil {
			return c.rejectBridge(w, r, BridgeErrInvalidRequest, "malformed form body")
		}

		token := r.PostFormValue("token")
		redirectURL := r.PostFormValue("redirectUrl")
		timestamp := r.PostFormValue("timestamp")
		if token == "" || redirectURL == "" {
			return c.rejectBridge(w, r, BridgeErrInvalidRequest, "missing token or redirectUrl")
		}

		issuedAt, err := parseBridgeTimestamp(timestamp)
		if err != nil {
			return c.rejectBridge(w, r, BridgeErrInvalidRequest, "unparseable timestamp")
		}
		// Bound the replay window in both directions so a skewed clock
		// cannot mint requests from the future.
		if age := time.Since(issuedAt); age > c.bridgeWindow || age < -c.bridgeWindow {
			return c.rejectBridge(w, r, BridgeErrRequestExpired, "timestamp outside bridge window")
		}

		if !c.redirectAllowed(redirectURL) {
			return c.rejectBridge(w, r, BridgeErrInvalidRedirect, "redirect target not in allow-list")
		}

		sess, err := c.storage.ExchangeBridgeToken(ctx, token)
		switch {
		case err == nil:
		case errors.Is(err, sessionstorage.ErrNotFound), errors.Is(err, sessionstorage.ErrExpired):
			return c.rejectBridge(w, r, BridgeErrInvalidSession, "bridge token rejected")
		default:
			c.redirectToSignin(w, r, BridgeErrSessionError)

			return errors.Wrap(err, "sessionstorage.Client.ExchangeBridgeToken()")
		}

		clientFingerprint := fingerprint.Hash(r)
		if sess.Fingerprint != "" && !fingerprint.Match(sess.Fingerprint, clientFingerprint) {
			// The token was minted for a different client. Burn the session.
			if err := c.storage.RevokeSession(ctx, sess.ID); err != nil {
				logger.Req(r).Errorf("failed to revoke session after bridge fingerprint mismatch: %v", err)
			}

			return c.rejectBridge(w, r, BridgeErrInvalidSession, "client fingerprint does not match session")
		}

		if _, err := c.cookies.NewAuthCookie(w, true, sess.ID, clientFingerprint, time.Until(sess.ExpiresAt)); err != nil {
			c.redirectToSignin(w, r, BridgeErrSessionError)

			return errors.Wrap(err, "cookie.Client.NewAuthCookie()")
		}

		http.Redirect(w, r, redirectURL, http.StatusSeeOther)

		return nil
	})
}

// BridgeToken mints a single-use token the frontend posts to the bridge
// endpoint on the application origin. The token is bound to the caller's
// session and expires with the bridge window.
func (c *Coordinator) BridgeToken() http.HandlerFunc {
	type response struct {
		Token     string `json:"token"`
		Timestamp int64  `json:"timestamp"`
		ExpiresIn int64  `json:"expires_in"`
	}

	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		token, err := c.storage.MintBridgeToken(ctx, sessioninfo.IDFromCtx(ctx), c.bridgeWindow)
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		return httpio.NewEncoder(w).Ok(response{
			Token:     token,
			Timestamp: time.Now().UnixMilli(),
			ExpiresIn: int64(c.bridgeWindow / time.Second),
		})
	})
}

// rejectBridge answers a client-caused bridge failure: log at info, then a
// 303 to the signin page carrying the rejection code.
func (c *Coordinator) rejectBridge(w http.ResponseWriter, r *http.Request, code, reason string) error {
	logger.Req(r).Infof("session bridge rejected: code=%s reason=%s", code, reason)
	c.redirectToSignin(w, r, code)

	return nil
}

func (c *Coordinator) redirectToSignin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, c.signinURL+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// parseBridgeTimestamp reads the bridge timestamp, sent as Unix
// milliseconds by the frontend.
func parseBridgeTimestamp(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "strconv.ParseInt()")
	}

	return time.UnixMilli(ms), nil
}

// redirectAllowed reports whether raw is a relative path matching the
// redirect allow-list. Absolute URLs and protocol-relative URLs never
// match; this is the open-redirect defense.
func (c *Coordinator) redirectAllowed(raw string) bool {
	// Browsers normalize backslashes to forward slashes, so /\evil.com
	// becomes the protocol-relative //evil.com after the redirect is
	// issued. Reject before matching, in both raw and percent-decoded form.
	if strings.ContainsRune(raw, '\\') {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "" || u.Host != "" || u.User != nil {
		return false
	}
	path := u.Path
	if strings.ContainsRune(path, '\\') {
		return false
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return false
	}

	for _, pattern := range defaultAllowedRedirects {
		if matchPath(pattern, path) {
			return true
		}
	}
	for _, pattern := range c.allowRedirects {
		if matchPath(pattern, path) {
			return true
		}
	}

	return false
}

// matchPath matches a path against a pattern segment-wise. A "*" segment
// matches exactly one non-empty segment.
func matchPath(pattern, path string) bool {
	pat := strings.Split(strings.Trim(pattern, "/"), "/")
	seg := strings.Split(strings.Trim(path, "/"), "/")
	if len(pat) != len(seg) {
		return false
	}

	for i := range pat {
		if pat[i] == "*" {
			if seg[i] == "" {
				return false
			}

			continue
		}
		if pat[i] != seg[i] {
			return false
		}
	}

	return true
}
