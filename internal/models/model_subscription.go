package models

import (
	"time"

	"github.com/wigglebyte/console/pkg/types"
)

// Subscription is the per-user subscription record. Exactly one row exists
// per user; mutations overwrite it in place, they never append.
type Subscription struct {
	ID           string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID       string                   `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex" json:"user_id"`
	PlanType     types.PlanType           `gorm:"column:plan_type;type:varchar(32);not null" json:"plan_type"`
	BillingCycle types.BillingCycle       `gorm:"column:billing_cycle;type:varchar(32);not null" json:"billing_cycle"`
	Status       types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	StartDate    time.Time                `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      time.Time                `gorm:"column:end_date;not null" json:"end_date"`
	// LastPaymentID references the payment that produced the current state.
	// Empty for trial records.
	LastPaymentID string `gorm:"column:last_payment_id;type:varchar(128)" json:"last_payment_id,omitempty"`
	// DownloadEnabled must always equal Status == active. Both fields are
	// stored because the agent download endpoint reads only this flag.
	DownloadEnabled bool `gorm:"column:download_enabled;not null" json:"download_enabled"`
	// HasUsedFreeTrial is sticky: once true, no code path may reset it.
	HasUsedFreeTrial   bool      `gorm:"column:has_used_free_trial;not null" json:"has_used_free_trial"`
	CancellationReason string    `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// ActiveAt reports whether the record grants entitlement at t, computed from
// the end date rather than trusted from the stored status.
func (s *Subscription) ActiveAt(t time.Time) bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		s.EndDate.After(t)
}
