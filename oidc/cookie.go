package oidc

import (
	"net/http"
	"time"

	"github.com/go-playground/errors/v5"
)

type stKey string

func (c stKey) String() string {
	return string(c)
}

const (
	flowCookieName = "OIDC"
	// Keys held in the encrypted flow cookie between the authorization
	// redirect and the callback.
	stState        stKey = "state"
	stPkceVerifier stKey = "pkceVerifier"
	stReturnURL    stKey = "returnURL"

	flowCookieExpiration = 10 * time.Minute
)

func (o *OIDC) writeFlowCookie(w http.ResponseWriter, cval map[stKey]string) error {
	encoded, err := o.s.Encode(flowCookieName, cval)
	if err != nil {
		return errors.Wrap(err, "securecookie.Encode()")
	}

	http.SetCookie(w, &http.Cookie{
		Name:    flowCookieName,
		Expires: time.Now().Add(flowCookieExpiration),
		Value:   encoded,
		Path:    "/",
		Secure:  o.secure,
	})

	return nil
}

func (o *OIDC) readFlowCookie(r *http.Request) (map[stKey]string, bool) {
	c, err := r.Cookie(flowCookieName)
	if err != nil {
		return nil, false
	}

	cval := make(map[stKey]string)
	if err := o.s.Decode(flowCookieName, c.Value, &cval); err != nil {
		return nil, false
	}

	return cval, true
}

func (o *OIDC) deleteFlowCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    flowCookieName,
		Expires: time.Unix(0, 0),
		Path:    "/",
		Secure:  o.secure,
	})
}
