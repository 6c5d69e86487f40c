package coordinator

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cccteam/ccc"
	"github.com/cccteam/httpio"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/onboarding"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage"
)

// OnboardingStatus reports the session user's onboarding progress.
func (c *Coordinator) OnboardingStatus() http.HandlerFunc {
	type response struct {
		NeedsOnboarding bool    `json:"needs_onboarding"`
		Status          string  `json:"status"`
		TenantID        *string `json:"tenant_id"`
	}

	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		sessInfo := sessioninfo.FromCtx(ctx)
		state, err := c.storage.OnboardingState(ctx, sessInfo.UserID)
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		res := response{
			NeedsOnboarding: state.NeedsOnboarding(),
			Status:          state.Status.String(),
		}
		if state.TenantID != "" {
			res.TenantID = &state.TenantID
		}

		return httpio.NewEncoder(w).Ok(res)
	})
}

// AdvanceOnboarding moves the session user's onboarding one step forward.
// The advance is a compare-and-swap against the caller's view of the
// current status; a stale view answers 409 so the caller re-reads and
// retries, never silently overwriting a concurrent writer.
func (c *Coordinator) AdvanceOnboarding() http.HandlerFunc {
	type request struct {
		FromStatus string             `json:"from_status"`
		ToStatus   string             `json:"to_status"`
		Payload    onboarding.Payload `json:"payload"`
	}
	type response struct {
		Status   string  `json:"status"`
		TenantID *string `json:"tenant_id"`
	}

	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		req := &request{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewBadRequestMessageWithError(err, "malformed request body"))
		}

		from, to := onboarding.Status(req.FromStatus), onboarding.Status(req.ToStatus)
		if !from.Valid() || !to.Valid() {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewBadRequestMessage("unknown onboarding status"))
		}

		sessInfo := sessioninfo.FromCtx(ctx)
		state, err := c.storage.AdvanceOnboarding(ctx, sessInfo.UserID, from, to, req.Payload)
		switch {
		case err == nil:
		case errors.Is(err, sessionstorage.ErrInvalidTransition):
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewBadRequestMessageWithError(err, "illegal onboarding transition"))
		case errors.Is(err, sessionstorage.ErrConflict):
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewConflictMessageWithError(err, "onboarding status changed concurrently"))
		default:
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		res := response{Status: state.Status.String()}
		if state.TenantID != "" {
			res.TenantID = &state.TenantID
		}

		return httpio.NewEncoder(w).Ok(res)
	})
}

// ForceCompleteOnboarding is an administrative override that moves a stuck
// onboarding to COMPLETE. It requires the elevated credential and every
// call is audited.
func (c *Coordinator) ForceCompleteOnboarding() http.HandlerFunc {
	type request struct {
		UserID   string `json:"user_id"`
		TenantID string `json:"tenant_id"`
		Reason   string `json:"reason"`
	}
	type response struct {
		Success bool     `json:"success"`
		AuditID ccc.UUID `json:"audit_id"`
	}

	return c.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := ccc.StartTrace(r.Context())
		defer span.End()

		if !c.adminAuthorized(r) {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewForbiddenMessage("elevated credential required"))
		}

		req := &request{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewBadRequestMessageWithError(err, "malformed request body"))
		}
		if req.UserID == "" || req.TenantID == "" || req.Reason == "" {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewBadRequestMessage("user_id, tenant_id, and reason are required"))
		}

		actor := sessioninfo.FromCtx(ctx).UserID
		_, auditID, err := c.storage.ForceCompleteOnboarding(ctx, req.UserID, req.TenantID, actor, req.Reason)
		switch {
		case err == nil:
		case errors.Is(err, sessionstorage.ErrNotFound):
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewNotFoundMessagef("no onboarding state for user %s", req.UserID))
		default:
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		return httpio.NewEncoder(w).Ok(response{Success: true, AuditID: auditID})
	})
}

// adminAuthorized checks the bearer credential in constant time. An unset
// credential disables the endpoint outright.
func (c *Coordinator) adminAuthorized(r *http.Request) bool {
	if c.adminToken == "" {
		return false
	}

	presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	return subtle.ConstantTimeCompare([]byte(presented), []byte(c.adminToken)) == 1
}
