package coordinator

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cccteam/ccc"
	"github.com/gorilla/securecookie"
	"github.com/tenantflow/coordinator/internal/fingerprint"
	"github.com/tenantflow/coordinator/internal/types"
	"github.com/tenantflow/coordinator/mock/mock_coordinator"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage"
	gomock "go.uber.org/mock/gomock"
)

func newTestCoordinator(storage Storage, opts ...Option) *Coordinator {
	sc := securecookie.New(
		[]byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		[]byte("0123456789abcdef0123456789abcdef"),
	)

	return New(storage, nil, sc, opts...)
}

func bridgeRequest(form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/auth/session-bridge", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("User-Agent", "test-agent")
	r.Header.Set("Accept-Language", "en-US")

	return r
}

func bridgeForm(token, redirectURL string, issuedAt time.Time) url.Values {
	return url.Values{
		"token":       {token},
		"redirectUrl": {redirectURL},
		"timestamp":   {strconv.FormatInt(issuedAt.UnixMilli(), 10)},
	}
}

func TestCoordinator_SessionBridge(t *testing.T) {
	t.Parallel()

	sessionID := ccc.Must(ccc.UUIDFromString("7f0b57b4-3de8-4ccc-99ae-0bbfb2a9b259"))

	tests := []struct {
		name         string
		form         url.Values
		prepare      func(*http.Request, *mock_coordinator.MockStorage)
		wantLocation string
		wantCookie   bool
	}{
		{
			name:         "missing token",
			form:         bridgeForm("", "/dashboard", time.Now()),
			wantLocation: "/auth/signin?error=invalid_request",
		},
		{
			name:         "missing redirectUrl",
			form:         bridgeForm("token-1", "", time.Now()),
			wantLocation: "/auth/signin?error=invalid_request",
		},
		{
			name:         "unparseable timestamp",
			form:         url.Values{"token": {"token-1"}, "redirectUrl": {"/dashboard"}, "timestamp": {"yesterday"}},
			wantLocation: "/auth/signin?error=invalid_request",
		},
		{
			name:         "timestamp 120 seconds old",
			form:         bridgeForm("token-1", "/dashboard", time.Now().Add(-120*time.Second)),
			wantLocation: "/auth/signin?error=request_expired",
		},
		{
			name:         "timestamp from the future",
			form:         bridgeForm("token-1", "/dashboard", time.Now().Add(5*time.Minute)),
			wantLocation: "/auth/signin?error=request_expired",
		},
		{
			name:         "absolute redirect URL",
			form:         bridgeForm("token-1", "https://evil.example.com/dashboard", time.Now()),
			wantLocation: "/auth/signin?error=invalid_redirect",
		},
		{
			name:         "protocol-relative redirect URL",
			form:         bridgeForm("token-1", "//evil.example.com/dashboard", time.Now()),
			wantLocation: "/auth/signin?error=invalid_redirect",
		},
		{
			name:         "path outside allow-list",
			form:         bridgeForm("token-1", "/admin/settings", time.Now()),
			wantLocation: "/auth/signin?error=invalid_redirect",
		},
		{
			name: "unknown or consumed token",
			form: bridgeForm("token-1", "/dashboard", time.Now()),
			prepare: func(_ *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ExchangeBridgeToken(gomock.Any(), "token-1").Return(nil, sessionstorage.ErrNotFound).Times(1)
			},
			wantLocation: "/auth/signin?error=invalid_session",
		},
		{
			name: "store unavailable",
			form: bridgeForm("token-1", "/dashboard", time.Now()),
			prepare: func(_ *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ExchangeBridgeToken(gomock.Any(), "token-1").Return(nil, sessionstorage.ErrStoreUnavailable).Times(1)
			},
			wantLocation: "/auth/signin?error=session_error",
		},
		{
			name: "fingerprint from a different client",
			form: bridgeForm("token-1", "/dashboard", time.Now()),
			prepare: func(_ *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ExchangeBridgeToken(gomock.Any(), "token-1").Return(&sessioninfo.SessionInfo{
					ID: sessionID, Fingerprint: "someone-else", ExpiresAt: time.Now().Add(time.Hour),
				}, nil).Times(1)
				storage.EXPECT().RevokeSession(gomock.Any(), sessionID).Return(nil).Times(1)
			},
			wantLocation: "/auth/signin?error=invalid_session",
		},
		{
			name: "valid exchange to dashboard",
			form: bridgeForm("token-1", "/dashboard", time.Now()),
			prepare: func(r *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ExchangeBridgeToken(gomock.Any(), "token-1").Return(&sessioninfo.SessionInfo{
					ID: sessionID, Fingerprint: fingerprint.Hash(r), ExpiresAt: time.Now().Add(time.Hour),
				}, nil).Times(1)
			},
			wantLocation: "/dashboard",
			wantCookie:   true,
		},
		{
			name: "valid exchange to tenant dashboard",
			form: bridgeForm("token-1", "/acme/dashboard", time.Now()),
			prepare: func(r *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ExchangeBridgeToken(gomock.Any(), "token-1").Return(&sessioninfo.SessionInfo{
					ID: sessionID, Fingerprint: fingerprint.Hash(r), ExpiresAt: time.Now().Add(time.Hour),
				}, nil).Times(1)
			},
			wantLocation: "/acme/dashboard",
			wantCookie:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			storage := mock_coordinator.NewMockStorage(ctrl)

			r := bridgeRequest(tt.form)
			if tt.prepare != nil {
				tt.prepare(r, storage)
			}

			c := newTestCoordinator(storage)
			w := httptest.NewRecorder()
			c.SessionBridge().ServeHTTP(w, r)

			if w.Code != http.StatusSeeOther {
				t.Fatalf("SessionBridge() status = %d, want %d", w.Code, http.StatusSeeOther)
			}
			if got := w.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("SessionBridge() Location = %q, want %q", got, tt.wantLocation)
			}

			gotCookie := false
			for _, cookie := range w.Result().Cookies() {
				if cookie.Name == types.SCSessionCookieName && cookie.Value != "" {
					gotCookie = true
				}
			}
			if gotCookie != tt.wantCookie {
				t.Errorf("SessionBridge() session cookie set = %t, want %t", gotCookie, tt.wantCookie)
			}
		})
	}
}

// A token is single use: the first exchange succeeds and the second is
// rejected, however closely the two requests race.
func TestCoordinator_SessionBridge_singleUse(t *testing.T) {
	t.Parallel()

	sessionID := ccc.Must(ccc.UUIDFromString("8cf13925-9ba6-438f-bd3c-43df25ee55cf"))

	ctrl := gomock.NewController(t)
	storage := mock_coordinator.NewMockStorage(ctrl)
	c := newTestCoordinator(storage)

	first := bridgeRequest(bridgeForm("token-1", "/dashboard", time.Now()))
	gomock.InOrder(
		storage.EXPECT().ExchangeBridgeToken(gomock.Any(), "token-1").Return(&sessioninfo.SessionInfo{
			ID: sessionID, Fingerprint: fingerprint.Hash(first), ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Times(1),
		storage.EXPECT().ExchangeBridgeToken(gomock.Any(), "token-1").Return(nil, sessionstorage.ErrNotFound).Times(1),
	)

	w := httptest.NewRecorder()
	c.SessionBridge().ServeHTTP(w, first)
	if got := w.Header().Get("Location"); got != "/dashboard" {
		t.Fatalf("first exchange Location = %q, want %q", got, "/dashboard")
	}

	w = httptest.NewRecorder()
	c.SessionBridge().ServeHTTP(w, bridgeRequest(bridgeForm("token-1", "/dashboard", time.Now())))
	if got := w.Header().Get("Location"); got != "/auth/signin?error=invalid_session" {
		t.Errorf("second exchange Location = %q, want rejection", got)
	}
}

func TestCoordinator_redirectAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"/dashboard", true},
		{"/onboarding", true},
		{"/onboarding/subscription", true},
		{"/acme/dashboard", true},
		{"/dashboard/extra", false},
		{"/acme/other", false},
		{"/a/b/dashboard", false},
		{"//evil.example.com/dashboard", false},
		{"https://evil.example.com/dashboard", false},
		{`/\evil.example.com/dashboard`, false},
		{"/%5Cevil.example.com/dashboard", false},
		{`/\/evil.example.com/dashboard`, false},
		{"dashboard", false},
		{"", false},
	}

	c := newTestCoordinator(nil)
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			if got := c.redirectAllowed(tt.raw); got != tt.want {
				t.Errorf("redirectAllowed(%q) = %t, want %t", tt.raw, got, tt.want)
			}
		})
	}
}
