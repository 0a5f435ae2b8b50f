package tool

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateInvoiceNumber returns an invoice identifier in the
// INV-YYMM-NNNN form printed on customer invoices. Uniqueness is enforced
// by the payment_history unique index; callers retry on collision.
func GenerateInvoiceNumber(at time.Time) string {
	return fmt.Sprintf("INV-%s-%04d", at.Format("0601"), rand.Intn(10000))
}

// GenerateReceiptID returns the human-traceable receipt identifier attached
// to every gateway order, derived from the creation timestamp.
func GenerateReceiptID(at time.Time) string {
	return fmt.Sprintf("receipt_%d", at.UnixMilli())
}
