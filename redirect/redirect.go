// Package redirect derives the single authoritative landing destination for
// a user from their session and onboarding state.
//
// Decide is a pure function of its inputs. It holds no caches and consults
// no cookies, so two requests observing the same store state always land in
// the same place. That determinism is what prevents redirect loops between
// independently written handlers.
package redirect

import (
	"fmt"
	"time"

	"github.com/tenantflow/coordinator/onboarding"
	"github.com/tenantflow/coordinator/sessioninfo"
)

// Kind is the category of landing destination.
type Kind string

const (
	// GoToSignIn sends the user to authentication.
	GoToSignIn Kind = "SIGNIN"

	// GoToOnboarding sends the user to an onboarding step.
	GoToOnboarding Kind = "ONBOARDING"

	// GoToDashboard sends the user to their tenant dashboard.
	GoToDashboard Kind = "DASHBOARD"
)

// Decision is the derived landing destination. It is never stored.
type Decision struct {
	Kind     Kind
	Step     onboarding.Status // set when Kind == GoToOnboarding
	TenantID string            // set when Kind == GoToDashboard
}

// Path renders the destination as a request path. The dashboard path is
// tenant-prefixed; a bare /dashboard is never produced.
func (d Decision) Path(signinURL, onboardingURL string) string {
	switch d.Kind {
	case GoToOnboarding:
		return fmt.Sprintf("%s/%s", onboardingURL, stepSlug(d.Step))
	case GoToDashboard:
		return fmt.Sprintf("/%s/dashboard", d.TenantID)
	default:
		return signinURL
	}
}

// Decide computes the landing destination for the given session and
// onboarding state as observed at the given instant. A revoked or
// time-expired session goes to signin regardless of onboarding state.
//
// It also reports whether the inputs violated the completion invariant
// (COMPLETE without a tenantId). The violation self-heals by landing the
// user back at the provisioning step; the caller is expected to log it.
func Decide(sess *sessioninfo.SessionInfo, state *onboarding.State, now time.Time) (d Decision, violated bool) {
	if sess == nil || !sess.Valid(now) {
		return Decision{Kind: GoToSignIn}, false
	}

	// A missing onboarding record is a user that has not started.
	if state == nil {
		return Decision{Kind: GoToOnboarding, Step: onboarding.StatusBusinessInfo}, false
	}

	if state.Status != onboarding.StatusComplete {
		return Decision{Kind: GoToOnboarding, Step: onboarding.Step(state.Status)}, false
	}

	if state.TenantID == "" {
		// COMPLETE without a tenant breaks the completion invariant.
		// Land at provisioning rather than a broken dashboard.
		return Decision{Kind: GoToOnboarding, Step: onboarding.StatusProvisioning}, true
	}

	return Decision{Kind: GoToDashboard, TenantID: state.TenantID}, false
}

// stepSlug maps a status to its path segment.
func stepSlug(s onboarding.Status) string {
	switch s {
	case onboarding.StatusBusinessInfo:
		return "business-info"
	case onboarding.StatusSubscriptionSelected:
		return "subscription"
	case onboarding.StatusPaymentPending:
		return "payment"
	case onboarding.StatusProvisioning:
		return "setup"
	default:
		return "complete"
	}
}
