package cookie

import (
	"net/http"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/internal/types"
	"github.com/tenantflow/coordinator/sessioninfo"
)

// RefreshXSRFTokenCookie sets the cookie if it does not exist and rewrites it
// when it is close to expiration or bound to a different session.
func (c *Client) RefreshXSRFTokenCookie(w http.ResponseWriter, r *http.Request, sessionID ccc.UUID, cookieExpiration time.Duration) (set bool) {
	cval, found := c.readXSRFCookie(r)
	sessionMatch := sessionID.String() == cval[types.STSessionID]
	if found {
		exp, err := time.Parse(time.UnixDate, cval[types.STTokenExpiration])
		if err != nil {
			logger.Req(r).Error("parsing expiration")
		} else if time.Now().Before(exp.Add(-types.XSRFReWriteWindow)) && sessionMatch {
			return false
		}
	}

	cval = map[types.STKey]string{
		types.STSessionID:       sessionID.String(),
		types.STTokenExpiration: time.Now().Add(cookieExpiration).Format(time.UnixDate),
	}

	if err := c.writeXSRFCookie(w, cookieExpiration, cval); err != nil {
		logger.Req(r).Error("writeXSRFCookie()")

		return false
	}

	return true
}

// HasValidXSRFToken reports whether the request carries a matching XSRF
// cookie and header bound to the current session.
func (c *Client) HasValidXSRFToken(r *http.Request) bool {
	cval, found := c.readXSRFCookie(r)
	if !found {
		return false
	}
	exp, err := time.Parse(time.UnixDate, cval[types.STTokenExpiration])
	if err != nil {
		logger.Req(r).Error("parsing expiration")

		return false
	}
	if time.Now().After(exp) {
		return false
	}
	if sessioninfo.IDFromRequest(r).String() != cval[types.STSessionID] {
		return false
	}
	hval, found := c.readXSRFHeader(r)
	if !found {
		return false
	}

	return hval[types.STSessionID] == cval[types.STSessionID]
}

func (c *Client) writeXSRFCookie(w http.ResponseWriter, cookieExpiration time.Duration, cval map[types.STKey]string) error {
	encoded, err := c.secureCookie.Encode(c.stCookieName, cval)
	if err != nil {
		return errors.Wrap(err, "securecookie.Encode()")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.stCookieName,
		Expires:  time.Now().Add(cookieExpiration),
		Value:    encoded,
		Path:     "/",
		Domain:   c.domain,
		Secure:   !c.insecure,
		SameSite: http.SameSiteStrictMode,
	})

	return nil
}

func (c *Client) readXSRFCookie(r *http.Request) (map[types.STKey]string, bool) {
	cookie, err := r.Cookie(c.stCookieName)
	if err != nil {
		return nil, false
	}

	cval := make(map[types.STKey]string)
	if err := c.secureCookie.Decode(c.stCookieName, cookie.Value, &cval); err != nil {
		logger.Req(r).Error("securecookie.Decode()")

		return nil, false
	}

	return cval, true
}

func (c *Client) readXSRFHeader(r *http.Request) (map[types.STKey]string, bool) {
	h := r.Header.Get(c.stHeaderName)
	cval := make(map[types.STKey]string)
	if err := c.secureCookie.Decode(c.stCookieName, h, &cval); err != nil {
		logger.Req(r).Errorf("securecookie.Decode(): %s", err)

		return nil, false
	}

	return cval, true
}
