package tool

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	re := regexp.MustCompile(`^INV-2506-\d{4}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, GenerateInvoiceNumber(at))
	}

	// year/month segment follows the payment date
	assert.Regexp(t, regexp.MustCompile(`^INV-2401-\d{4}$`),
		GenerateInvoiceNumber(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestGenerateReceiptID(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "receipt_1749983400000", GenerateReceiptID(at))
}

func TestGenerateUUIDV7(t *testing.T) {
	a := GenerateUUIDV7()
	b := GenerateUUIDV7()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
	// version nibble
	assert.Equal(t, byte('7'), a[14])
}
