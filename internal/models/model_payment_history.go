package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/wigglebyte/console/pkg/types"
)

// PaymentHistoryExtra carries the gateway metadata snapshot taken when the
// entry was written (order notes, receipt id).
type PaymentHistoryExtra struct {
	OrderID   string `json:"order_id,omitempty"`
	ReceiptID string `json:"receipt_id,omitempty"`
	// RateUsed is the USD->INR rate applied at checkout, kept for support
	// lookups only.
	RateUsed float64 `json:"rate_used,omitempty"`
}

// PaymentHistory is an append-only record of a completed payment. Rows are
// immutable after creation; invoice numbers are generated once at write time.
type PaymentHistory struct {
	ID            string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID        string              `gorm:"column:user_id;type:varchar(64);not null;index:idx_payment_history_user_date,priority:1" json:"user_id"`
	PlanType      types.PlanType      `gorm:"column:plan_type;type:varchar(32);not null" json:"plan_type"`
	Amount        float64             `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Currency      string              `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	BillingCycle  types.BillingCycle  `gorm:"column:billing_cycle;type:varchar(32);not null" json:"billing_cycle"`
	PaymentMethod string              `gorm:"column:payment_method;type:varchar(64);not null" json:"payment_method"`
	TransactionID string              `gorm:"column:transaction_id;type:varchar(128);not null" json:"transaction_id"`
	Status        types.PaymentStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	PaymentDate   time.Time           `gorm:"column:payment_date;not null;index:idx_payment_history_user_date,priority:2,sort:desc" json:"payment_date"`
	InvoiceNumber string              `gorm:"column:invoice_number;type:varchar(32);not null;uniqueIndex" json:"invoice_number"`

	Extra     datatypes.JSONType[*PaymentHistoryExtra] `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                                `json:"created_at"`
}

func (PaymentHistory) TableName() string {
	return "payment_history"
}
