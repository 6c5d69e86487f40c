package coordinator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cccteam/ccc"
	"github.com/tenantflow/coordinator/internal/types"
)

// xsrfRequest builds a request carrying a valid XSRF cookie, optionally
// echoing its value in the XSRF header as a browser client would.
func xsrfRequest(t *testing.T, c *Coordinator, method string, setHeader bool, sessionID ccc.UUID) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodGet, "/onboarding/status", nil)
	if set := c.cookies.RefreshXSRFTokenCookie(w, seed, sessionID, types.XSRFCookieLife); !set {
		t.Fatal("RefreshXSRFTokenCookie() = false, want cookie set")
	}

	r := httptest.NewRequest(method, "/onboarding/advance", nil)
	for _, cookie := range w.Result().Cookies() {
		r.AddCookie(cookie)
		if setHeader && cookie.Name == types.STCookieName {
			r.Header.Set(types.STHeaderName, cookie.Value)
		}
	}

	return r.WithContext(context.WithValue(r.Context(), types.CTXSessionID, sessionID))
}

func TestCoordinator_SetXSRFToken(t *testing.T) {
	t.Parallel()

	sessionID := ccc.Must(ccc.UUIDFromString("7aa69e8b-cbfc-4f6b-a887-063ae8eba726"))

	t.Run("safe method without a cookie passes through", func(t *testing.T) {
		t.Parallel()

		c := newTestCoordinator(nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

		r := httptest.NewRequest(http.MethodGet, "/onboarding/status", nil)
		r = r.WithContext(context.WithValue(r.Context(), types.CTXSessionID, sessionID))

		w := httptest.NewRecorder()
		c.SetXSRFToken(next).ServeHTTP(w, r)

		if w.Code != http.StatusAccepted {
			t.Errorf("SetXSRFToken() status = %d, want %d", w.Code, http.StatusAccepted)
		}
	})

	t.Run("unsafe method without a cookie is redirected to retry", func(t *testing.T) {
		t.Parallel()

		c := newTestCoordinator(nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

		r := httptest.NewRequest(http.MethodPost, "/onboarding/advance", nil)
		r = r.WithContext(context.WithValue(r.Context(), types.CTXSessionID, sessionID))

		w := httptest.NewRecorder()
		c.SetXSRFToken(next).ServeHTTP(w, r)

		if w.Code != http.StatusTemporaryRedirect {
			t.Errorf("SetXSRFToken() status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
		}
	})

	t.Run("unsafe method with a cookie passes through", func(t *testing.T) {
		t.Parallel()

		c := newTestCoordinator(nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

		w := httptest.NewRecorder()
		c.SetXSRFToken(next).ServeHTTP(w, xsrfRequest(t, c, http.MethodPost, false, sessionID))

		if w.Code != http.StatusAccepted {
			t.Errorf("SetXSRFToken() status = %d, want %d", w.Code, http.StatusAccepted)
		}
	})
}

func TestCoordinator_ValidateXSRFToken(t *testing.T) {
	t.Parallel()

	sessionID := ccc.Must(ccc.UUIDFromString("7aa69e8b-cbfc-4f6b-a887-063ae8eba726"))

	tests := []struct {
		name      string
		method    string
		setHeader bool
		wantCode  int
	}{
		{name: "safe method needs no token", method: http.MethodGet, wantCode: http.StatusAccepted},
		{name: "unsafe method with matching header passes", method: http.MethodPost, setHeader: true, wantCode: http.StatusAccepted},
		{name: "unsafe method without header is forbidden", method: http.MethodPost, wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestCoordinator(nil)
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

			w := httptest.NewRecorder()
			c.ValidateXSRFToken(next).ServeHTTP(w, xsrfRequest(t, c, tt.method, tt.setHeader, sessionID))

			if w.Code != tt.wantCode {
				t.Errorf("ValidateXSRFToken() status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
