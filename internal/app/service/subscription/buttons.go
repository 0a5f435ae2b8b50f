package subscription

import (
	"time"

	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/types"
)

// ButtonStates determines which pricing-page buttons are disabled for the
// given record. Pure function, no I/O; sub may be nil for a new user.
//
// Rules, in order: a new user has everything enabled; a consumed trial
// disables the trial button; an active unexpired premium disables all three
// (the user already holds the top plan); an active unexpired simple
// disables trial and simple, leaving premium open as an upgrade.
func ButtonStates(sub *models.Subscription, now time.Time) types.ButtonStates {
	var states types.ButtonStates

	if sub == nil {
		return states
	}

	if sub.HasUsedFreeTrial {
		states.FreeTrialDisabled = true
	}

	if sub.PlanType == types.PlanTypePremium && sub.ActiveAt(now) {
		states.FreeTrialDisabled = true
		states.SimpleDisabled = true
		states.PremiumDisabled = true
	}

	if sub.PlanType == types.PlanTypeSimple && sub.ActiveAt(now) {
		states.FreeTrialDisabled = true
		states.SimpleDisabled = true
	}

	return states
}
