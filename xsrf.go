package coordinator

import (
	"net/http"

	"github.com/cccteam/httpio"
	"github.com/tenantflow/coordinator/internal/types"
	"github.com/tenantflow/coordinator/sessioninfo"
)

// SetXSRFToken sets the XSRF Token
func (c *Coordinator) SetXSRFToken(next http.Handler) http.Handler {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		set := c.cookies.RefreshXSRFTokenCookie(w, r, sessioninfo.IDFromRequest(r), types.XSRFCookieLife)
		if set && !types.SafeMethods.Contain(r.Method) {
			// Cookie was not present and request requires XSRF Token, so
			// redirect request to try again now that the XSRF Token Cookie is set
			http.Redirect(w, r, r.RequestURI, http.StatusTemporaryRedirect)

			return nil
		}

		next.ServeHTTP(w, r)

		return nil
	})
}

// ValidateXSRFToken validates the XSRF Token
func (c *Coordinator) ValidateXSRFToken(next http.Handler) http.Handler {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		// Validate XSRFToken for non-safe
		if !types.SafeMethods.Contain(r.Method) && !c.cookies.HasValidXSRFToken(r) {
			// Token validation failed
			return httpio.NewEncoder(w).ClientMessage(r.Context(), httpio.NewForbiddenMessage("invalid XSRF token"))
		}

		next.ServeHTTP(w, r)

		return nil
	})
}
