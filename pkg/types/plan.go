package types

// PlanType identifies a product tier.
type PlanType string

const (
	PlanTypeFree       PlanType = "free"
	PlanTypeSimple     PlanType = "simple"
	PlanTypePremium    PlanType = "premium"
	PlanTypeEnterprise PlanType = "enterprise"
)

func (p PlanType) Valid() bool {
	switch p {
	case PlanTypeFree, PlanTypeSimple, PlanTypePremium, PlanTypeEnterprise:
		return true
	}
	return false
}

// Paid reports whether the plan requires payment.
func (p PlanType) Paid() bool {
	return p == PlanTypeSimple || p == PlanTypePremium || p == PlanTypeEnterprise
}

// BillingCycle is the renewal interval of a subscription.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
	BillingCycleTrial   BillingCycle = "trial"
)

func (b BillingCycle) Valid() bool {
	switch b {
	case BillingCycleMonthly, BillingCycleYearly, BillingCycleTrial:
		return true
	}
	return false
}

// PlanItem is one purchasable catalog entry.
type PlanItem struct {
	ID           string       `mapstructure:"id" json:"id"`
	PlanType     PlanType     `mapstructure:"plan_type" json:"plan_type"`
	BillingCycle BillingCycle `mapstructure:"billing_cycle" json:"billing_cycle"`
	PriceUSD     float64      `mapstructure:"price_usd" json:"price_usd"`
}
