package coordinator

import (
	"net/http"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/internal/fingerprint"
	"github.com/tenantflow/coordinator/internal/types"
	"github.com/tenantflow/coordinator/onboarding"
	"github.com/tenantflow/coordinator/redirect"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage"
)

// Resolve sends the user to the one place they belong: sign-in without a
// valid session, the next onboarding step while onboarding is unfinished,
// or their tenant dashboard once it is complete. Two requests observing the
// same store state always land in the same place.
//
// Store trouble answers 503 rather than bouncing the user to sign-in; a
// down store says nothing about whether the session is valid.
func (c *Coordinator) Resolve() http.HandlerFunc {
	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		sessInfo, err := c.resolveSession(r)
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewServiceUnavailableMessageWithError(err, "session store unavailable"))
		}

		var state *onboarding.State
		if sessInfo != nil {
			state, err = c.storage.OnboardingState(ctx, sessInfo.UserID)
			if err != nil {
				return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewServiceUnavailableMessageWithError(err, "session store unavailable"))
			}
		}

		decision, violated := redirect.Decide(sessInfo, state, time.Now())
		if violated {
			logger.Req(r).Errorf("onboarding state for user %s is COMPLETE without a tenant id; re-landing at provisioning", sessInfo.UserID)
		}

		http.Redirect(w, r, decision.Path(c.signinURL, c.onboardingURL), http.StatusSeeOther)

		return nil
	})
}

// resolveSession validates the session cookie if one is present. A missing,
// undecodable, or rejected cookie yields a nil session; only store
// unavailability is an error.
func (c *Coordinator) resolveSession(r *http.Request) (*sessioninfo.SessionInfo, error) {
	cval, ok := c.cookies.ReadAuthCookie(r)
	if !ok {
		return nil, nil
	}
	sessionID, validSessionID := types.ValidSessionID(cval[types.SCSessionID])
	if !validSessionID {
		return nil, nil
	}

	sessInfo, err := c.storage.ValidateSession(r.Context(), sessionID, fingerprint.Hash(r))
	switch {
	case err == nil:
		return sessInfo, nil
	case errors.Is(err, sessionstorage.ErrStoreUnavailable):
		return nil, err
	default:
		return nil, nil
	}
}
