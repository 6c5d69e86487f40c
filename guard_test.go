package coordinator

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cccteam/ccc"
	"github.com/tenantflow/coordinator/internal/fingerprint"
	"github.com/tenantflow/coordinator/mock/mock_coordinator"
	"github.com/tenantflow/coordinator/onboarding"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage"
	gomock "go.uber.org/mock/gomock"
)

// resolveRequest builds a GET /resolve carrying a freshly sealed session
// cookie for sessionID.
func resolveRequest(t *testing.T, c *Coordinator, sessionID ccc.UUID) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/resolve", nil)
	r.Header.Set("User-Agent", "test-agent")

	w := httptest.NewRecorder()
	if _, err := c.cookies.NewAuthCookie(w, true, sessionID, fingerprint.Hash(r), time.Hour); err != nil {
		t.Fatalf("NewAuthCookie() error = %v", err)
	}
	for _, cookie := range w.Result().Cookies() {
		r.AddCookie(cookie)
	}

	return r
}

func TestCoordinator_Resolve(t *testing.T) {
	t.Parallel()

	sessionID := ccc.Must(ccc.UUIDFromString("3a331bf7-3b0e-4cc5-9a71-bd2e7cc96dbe"))
	valid := func(r *http.Request) *sessioninfo.SessionInfo {
		return &sessioninfo.SessionInfo{
			ID: sessionID, UserID: "user-1", Fingerprint: fingerprint.Hash(r),
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	tests := []struct {
		name         string
		anonymous    bool
		prepare      func(*http.Request, *mock_coordinator.MockStorage)
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "no cookie goes to signin",
			anonymous:    true,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/auth/signin",
		},
		{
			name: "rejected session goes to signin",
			prepare: func(_ *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ValidateSession(gomock.Any(), sessionID, gomock.Any()).Return(nil, sessionstorage.ErrExpired).Times(1)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/auth/signin",
		},
		{
			name: "mid-onboarding lands at current step",
			prepare: func(r *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ValidateSession(gomock.Any(), sessionID, gomock.Any()).Return(valid(r), nil).Times(1)
				storage.EXPECT().OnboardingState(gomock.Any(), "user-1").Return(&onboarding.State{
					UserID: "user-1", Status: onboarding.StatusBusinessInfo,
				}, nil).Times(1)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/onboarding/subscription",
		},
		{
			name: "complete onboarding lands at tenant dashboard",
			prepare: func(r *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ValidateSession(gomock.Any(), sessionID, gomock.Any()).Return(valid(r), nil).Times(1)
				storage.EXPECT().OnboardingState(gomock.Any(), "user-1").Return(&onboarding.State{
					UserID: "user-1", Status: onboarding.StatusComplete, TenantID: "acme",
				}, nil).Times(1)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/acme/dashboard",
		},
		{
			name: "complete without tenant re-lands at provisioning",
			prepare: func(r *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ValidateSession(gomock.Any(), sessionID, gomock.Any()).Return(valid(r), nil).Times(1)
				storage.EXPECT().OnboardingState(gomock.Any(), "user-1").Return(&onboarding.State{
					UserID: "user-1", Status: onboarding.StatusComplete,
				}, nil).Times(1)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/onboarding/setup",
		},
		{
			name: "store unavailable fails closed",
			prepare: func(_ *http.Request, storage *mock_coordinator.MockStorage) {
				storage.EXPECT().ValidateSession(gomock.Any(), sessionID, gomock.Any()).Return(nil, sessionstorage.ErrStoreUnavailable).Times(1)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			storage := mock_coordinator.NewMockStorage(ctrl)
			c := newTestCoordinator(storage)

			var r *http.Request
			if tt.anonymous {
				r = httptest.NewRequest(http.MethodGet, "/resolve", nil)
			} else {
				r = resolveRequest(t, c, sessionID)
			}
			if tt.prepare != nil {
				tt.prepare(r, storage)
			}

			w := httptest.NewRecorder()
			c.Resolve().ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("Resolve() status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := w.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Resolve() Location = %q, want %q", got, tt.wantLocation)
				}
			}
		})
	}
}

// Two requests observing the same store state must land in the same place.
func TestCoordinator_Resolve_deterministic(t *testing.T) {
	t.Parallel()

	sessionID := ccc.Must(ccc.UUIDFromString("5265179c-01bb-4b7a-99cb-62e2427c08f1"))

	ctrl := gomock.NewController(t)
	storage := mock_coordinator.NewMockStorage(ctrl)
	c := newTestCoordinator(storage)

	r := resolveRequest(t, c, sessionID)
	storage.EXPECT().ValidateSession(gomock.Any(), sessionID, gomock.Any()).Return(&sessioninfo.SessionInfo{
		ID: sessionID, UserID: "user-1", Fingerprint: fingerprint.Hash(r),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Times(5)
	storage.EXPECT().OnboardingState(gomock.Any(), "user-1").Return(&onboarding.State{
		UserID: "user-1", Status: onboarding.StatusPaymentPending,
	}, nil).Times(5)

	var first string
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		c.Resolve().ServeHTTP(w, resolveRequest(t, c, sessionID))
		got := w.Header().Get("Location")
		if first == "" {
			first = got

			continue
		}
		if got != first {
			t.Fatalf("Resolve() Location changed between identical requests: %q then %q", first, got)
		}
	}
	if first != "/onboarding/setup" {
		t.Errorf("Resolve() Location = %q, want %q", first, "/onboarding/setup")
	}
}
