package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/logctx"
	"github.com/wigglebyte/console/pkg/tool"
	"github.com/wigglebyte/console/pkg/types"
)

// invoiceAttempts bounds the invoice-number collision retry; the number
// space is small by design (it is printed on invoices).
const invoiceAttempts = 3

// Service is the append-only payment history ledger and the source of
// invoice generation.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	now func() time.Time
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

// RecordPaymentRequest carries everything needed to append one entry.
// Entries are written only after successful gateway verification.
type RecordPaymentRequest struct {
	UserID        string
	PlanType      types.PlanType
	Amount        float64
	Currency      string
	BillingCycle  types.BillingCycle
	PaymentMethod string
	TransactionID string
	Extra         *models.PaymentHistoryExtra
}

// RecordPayment appends a completed payment. The invoice number is generated
// here, once, and never mutated afterwards; on the rare collision with an
// existing number a fresh one is generated.
func (s *Service) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*models.PaymentHistory, error) {
	if req == nil || req.UserID == "" || req.TransactionID == "" {
		return nil, errors.New("userID and transactionID are required")
	}

	entry := &models.PaymentHistory{
		ID:            tool.GenerateUUIDV7(),
		UserID:        req.UserID,
		PlanType:      req.PlanType,
		Amount:        req.Amount,
		Currency:      req.Currency,
		BillingCycle:  req.BillingCycle,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Status:        types.PaymentStatusCompleted,
		PaymentDate:   s.now(),
		Extra:         datatypes.NewJSONType(req.Extra),
	}

	var lastErr error
	for attempt := 0; attempt < invoiceAttempts; attempt++ {
		entry.InvoiceNumber = tool.GenerateInvoiceNumber(entry.PaymentDate)
		if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("failed to store payment history: %w", err)
		}
		logctx.FromCtx(ctx, s.log).Infow("payment_recorded",
			"user_id", req.UserID, "transaction_id", req.TransactionID, "invoice_number", entry.InvoiceNumber)
		return entry, nil
	}
	return nil, fmt.Errorf("failed to allocate invoice number: %w", lastErr)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// ListUserPayments returns the user's history, newest first.
func (s *Service) ListUserPayments(ctx context.Context, userID string) ([]*models.PaymentHistory, error) {
	var entries []*models.PaymentHistory
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("payment_date desc").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}
	return entries, nil
}

// GetUserPayment loads a single entry, scoped to the user so one customer
// cannot read another's invoice.
func (s *Service) GetUserPayment(ctx context.Context, userID, paymentID string) (*models.PaymentHistory, error) {
	var entry models.PaymentHistory
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", paymentID, userID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &entry, nil
}

// FindByTransactionID looks up an entry by its gateway transaction id.
// Returns nil when no entry exists.
func (s *Service) FindByTransactionID(ctx context.Context, transactionID string) (*models.PaymentHistory, error) {
	var entry models.PaymentHistory
	err := s.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment by transaction: %w", err)
	}
	return &entry, nil
}

// Scan request/response for the admin list pages.
type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.PaymentHistory `json:"items"`
	Total int64                    `json:"total"`
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanPayments implements paginated admin listing with filters.
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.PaymentHistory{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}

	var rows []*models.PaymentHistory
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}
