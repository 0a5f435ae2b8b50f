package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wigglebyte/console/internal/models"
)

const (
	companyName    = "WiggleByte Security"
	companyAddress = "123 Security Street, Cyber City, 12345"
	taxRate        = 0.1
)

// ErrPaymentNotFound indicates the payment does not exist or belongs to a
// different user.
var ErrPaymentNotFound = errors.New("payment record not found")

// InvoiceItem is a single invoice line.
type InvoiceItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// InvoiceData is everything the invoice view needs for one payment.
// It is computed on demand from the immutable payment entry; invoices are
// never stored.
type InvoiceData struct {
	models.PaymentHistory
	CompanyName    string        `json:"company_name"`
	CompanyAddress string        `json:"company_address"`
	CustomerName   string        `json:"customer_name"`
	CustomerEmail  string        `json:"customer_email"`
	CustomerID     string        `json:"customer_id"`
	Items          []InvoiceItem `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	Tax            float64       `json:"tax"`
	Total          float64       `json:"total"`
}

// GenerateInvoiceData assembles invoice data for one of the user's payments.
func (s *Service) GenerateInvoiceData(ctx context.Context, userID, paymentID string) (*InvoiceData, error) {
	payment, err := s.GetUserPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("uid = ?", userID).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
	}

	subtotal := payment.Amount
	tax := subtotal * taxRate

	return &InvoiceData{
		PaymentHistory: *payment,
		CompanyName:    companyName,
		CompanyAddress: companyAddress,
		CustomerName:   customerName(&user),
		CustomerEmail:  user.Email,
		CustomerID:     userID,
		Items: []InvoiceItem{{
			Description: fmt.Sprintf("%s Plan - %s Billing", strings.ToUpper(string(payment.PlanType)), payment.BillingCycle),
			Amount:      payment.Amount,
		}},
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}, nil
}

// customerName prefers the profile name, falls back to a name derived from
// the email local part ("john.doe" -> "John Doe"), then a generic label.
func customerName(user *models.User) string {
	if user.Name != "" {
		return user.Name
	}
	if user.Email != "" {
		local, _, _ := strings.Cut(user.Email, "@")
		parts := strings.Split(local, ".")
		for i, p := range parts {
			if p == "" {
				continue
			}
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
		if name := strings.TrimSpace(strings.Join(parts, " ")); name != "" {
			return name
		}
	}
	return "Valued Customer"
}

// RevenueSummary aggregates completed payments for the admin dashboard.
type RevenueSummary struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	PaymentCount int64     `json:"payment_count"`
	TotalAmount  float64   `json:"total_amount"`
	Currency     string    `json:"currency"`
}

// Revenue sums completed payments in [from, to). Amounts are assumed to be
// in a single settlement currency per deployment.
func (s *Service) Revenue(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	var row struct {
		Count int64
		Total float64
	}
	err := s.db.WithContext(ctx).Model(&models.PaymentHistory{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("status = ? AND payment_date >= ? AND payment_date < ?", "completed", from, to).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	var currency string
	s.db.WithContext(ctx).Model(&models.PaymentHistory{}).
		Select("currency").Where("status = ?", "completed").Limit(1).Scan(&currency)

	return &RevenueSummary{
		From:         from,
		To:           to,
		PaymentCount: row.Count,
		TotalAmount:  row.Total,
		Currency:     currency,
	}, nil
}
