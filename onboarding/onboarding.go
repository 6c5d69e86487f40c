// Package onboarding models the tenant provisioning state machine.
//
// A tenant advances monotonically through the statuses below. The only
// concurrency-control primitive is the store-level compare-and-swap in
// sessionstorage; this package holds the pure transition rules so every
// writer agrees on what a legal advance is.
package onboarding

import "time"

// Status is the onboarding progress of a user/tenant pair.
type Status string

const (
	StatusNotStarted           Status = "NOT_STARTED"
	StatusBusinessInfo         Status = "BUSINESS_INFO"
	StatusSubscriptionSelected Status = "SUBSCRIPTION_SELECTED"
	StatusPaymentPending       Status = "PAYMENT_PENDING"
	StatusProvisioning         Status = "PROVISIONING"
	StatusComplete             Status = "COMPLETE"
)

// PlanFree is the plan that skips the payment step.
const PlanFree = "free"

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusBusinessInfo, StatusSubscriptionSelected,
		StatusPaymentPending, StatusProvisioning, StatusComplete:
		return true
	}

	return false
}

// rank orders statuses for the monotonic-advance invariant.
var rank = map[Status]int{
	StatusNotStarted:           0,
	StatusBusinessInfo:         1,
	StatusSubscriptionSelected: 2,
	StatusPaymentPending:       3,
	StatusProvisioning:         4,
	StatusComplete:             5,
}

// State is the onboarding record for a user/tenant pair.
type State struct {
	UserID       string
	Status       Status
	TenantID     string // set once provisioning begins; stable thereafter
	SelectedPlan string
	BillingCycle string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NeedsOnboarding reports whether the user must still complete onboarding.
func (s *State) NeedsOnboarding() bool {
	return s.Status != StatusComplete
}

// Payload carries the fields an advance may set.
type Payload struct {
	TenantID     string `json:"tenant_id,omitempty"`
	SelectedPlan string `json:"selected_plan,omitempty"`
	BillingCycle string `json:"billing_cycle,omitempty"`
}

// CanTransition reports whether from -> to is a legal advance.
//
// Statuses advance one step at a time, with a single exception: the free
// plan skips PAYMENT_PENDING and moves from SUBSCRIPTION_SELECTED straight
// to PROVISIONING. Re-entering PROVISIONING is permitted so a crashed
// provisioning run can be re-attempted.
func CanTransition(from, to Status, selectedPlan string) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}

	if from == StatusProvisioning && to == StatusProvisioning {
		return true
	}

	if from == StatusSubscriptionSelected && to == StatusProvisioning {
		return selectedPlan == PlanFree
	}

	return rank[to] == rank[from]+1
}

// Step returns the onboarding step the user must perform next for a given
// status. A COMPLETE status has no remaining step and maps to itself.
func Step(s Status) Status {
	switch s {
	case StatusNotStarted:
		return StatusBusinessInfo
	case StatusBusinessInfo:
		return StatusSubscriptionSelected
	case StatusSubscriptionSelected:
		return StatusPaymentPending
	case StatusPaymentPending:
		return StatusProvisioning
	case StatusProvisioning:
		return StatusProvisioning
	default:
		return StatusComplete
	}
}
