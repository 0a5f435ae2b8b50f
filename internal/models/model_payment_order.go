package models

import (
	"time"

	"github.com/wigglebyte/console/pkg/types"
)

// PaymentOrder records a gateway order at creation time. Checkout completion
// binds signature verification to this row's amount and plan metadata, so a
// valid signature for a cheaper order cannot be replayed against a pricier
// plan.
type PaymentOrder struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OrderID string `gorm:"column:order_id;type:varchar(128);not null;uniqueIndex" json:"order_id"`
	// UserID is empty when the order was created before login state was
	// known; completion stamps it from the authenticated session.
	UserID string `gorm:"column:user_id;type:varchar(64);index" json:"user_id,omitempty"`
	// AmountMinor is the gateway minor-unit integer (paise for INR).
	AmountMinor  int64              `gorm:"column:amount_minor;type:bigint;not null" json:"amount_minor"`
	Currency     string             `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	PlanType     types.PlanType     `gorm:"column:plan_type;type:varchar(32);not null" json:"plan_type"`
	BillingCycle types.BillingCycle `gorm:"column:billing_cycle;type:varchar(32);not null" json:"billing_cycle"`
	ReceiptID    string             `gorm:"column:receipt_id;type:varchar(64);not null" json:"receipt_id"`
	Status       types.OrderStatus  `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// PaymentID is set once the gateway reports the order paid.
	PaymentID string    `gorm:"column:payment_id;type:varchar(128)" json:"payment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_order"
}
