// Package cookie implements the encrypted session cookie codec.
package cookie

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/gorilla/securecookie"
	"github.com/tenantflow/coordinator/internal/types"
)

// Client reads and writes the coordinator's cookies. All values pass
// through securecookie's authenticated encryption; a tampered cookie fails
// decode rather than decoding to wrong-but-valid data.
type Client struct {
	secureCookie *securecookie.SecureCookie
	cookieName   string
	stCookieName string
	stHeaderName string
	domain       string
	insecure     bool
}

// NewClient creates a cookie Client around the given SecureCookie.
func NewClient(secureCookie *securecookie.SecureCookie, options ...Option) *Client {
	c := &Client{
		secureCookie: secureCookie,
		cookieName:   types.SCSessionCookieName,
		stCookieName: types.STCookieName,
		stHeaderName: types.STHeaderName,
	}
	for _, opt := range options {
		opt(c)
	}

	return c
}

// NewAuthCookie writes a fresh session cookie holding the sessionID and the
// client fingerprint hash, bounded to the remaining session lifetime.
func (c *Client) NewAuthCookie(w http.ResponseWriter, sameSiteStrict bool, sessionID ccc.UUID, fingerprint string, maxAge time.Duration) (map[types.SCKey]string, error) {
	cval := map[types.SCKey]string{
		types.SCSessionID:   sessionID.String(),
		types.SCFingerprint: fingerprint,
		types.SCExpiration:  time.Now().Add(maxAge).Format(time.UnixDate),
	}

	if err := c.WriteAuthCookie(w, sameSiteStrict, cval, maxAge); err != nil {
		return nil, errors.Wrap(err, "cookie.Client.WriteAuthCookie()")
	}

	return cval, nil
}

// ReadAuthCookie decodes the session cookie. The encrypted form is tried
// first; the legacy base64 form is accepted read-only during the migration
// window and logged as deprecated.
func (c *Client) ReadAuthCookie(r *http.Request) (map[types.SCKey]string, bool) {
	cval := make(map[types.SCKey]string)

	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		return cval, false
	}
	if err := c.secureCookie.Decode(c.cookieName, cookie.Value, &cval); err != nil {
		legacy, ok := decodeLegacy(cookie.Value)
		if !ok {
			logger.Req(r).Error(errors.Wrap(err, "secureCookie.Decode()"))

			return cval, false
		}
		logger.Req(r).Infof("accepted legacy session cookie format; re-issue pending (deprecated)")

		return legacy, true
	}

	return cval, true
}

// WriteAuthCookie encodes and sets the session cookie.
func (c *Client) WriteAuthCookie(w http.ResponseWriter, sameSiteStrict bool, cval map[types.SCKey]string, maxAge time.Duration) error {
	cval[types.SCSameSiteStrict] = strconv.FormatBool(sameSiteStrict)
	encoded, err := c.secureCookie.Encode(c.cookieName, cval)
	if err != nil {
		return errors.Wrap(err, "securecookie.Encode()")
	}

	sameSite := http.SameSiteStrictMode
	if !sameSiteStrict {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    encoded,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   int(maxAge / time.Second),
		Secure:   !c.insecure,
		HttpOnly: true,
		SameSite: sameSite,
	})

	return nil
}

// ExpireAuthCookie instructs the browser to drop the session cookie.
func (c *Client) ExpireAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   !c.insecure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
