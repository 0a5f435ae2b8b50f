package types

// SubscriptionStatus is the stored lifecycle state of a subscription record.
// "Is the user entitled right now" is always computed from end_date, never
// trusted from this field alone.
type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
	SubscriptionStatusNone    SubscriptionStatus = "none"
)

// PaymentStatus is the state of a payment history entry.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusPending   PaymentStatus = "pending"
)

// OrderStatus tracks a gateway order from creation to settlement.
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// ButtonStates drives pricing-page button enablement for a user.
type ButtonStates struct {
	FreeTrialDisabled bool `json:"free_trial_disabled"`
	SimpleDisabled    bool `json:"simple_disabled"`
	PremiumDisabled   bool `json:"premium_disabled"`
}

// Result is the outcome of a ledger policy decision. Policy rejections are
// expected business outcomes, not errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK() Result { return Result{Success: true} }

func Rejected(msg string) Result { return Result{Success: false, Message: msg} }
