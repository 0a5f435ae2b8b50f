package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wigglebyte/console/internal/app/service/history"
	"github.com/wigglebyte/console/internal/app/service/subscription"
	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/internal/platform/razorpay"
	"github.com/wigglebyte/console/pkg/logctx"
	"github.com/wigglebyte/console/pkg/tool"
	"github.com/wigglebyte/console/pkg/types"
)

const (
	// ledger writes after a verified payment are retried rather than lost
	ledgerWriteAttempts = 3
	ledgerWriteBackoff  = time.Second
)

// ErrOrderNotFound indicates a completion attempt against an order this
// service never created.
var ErrOrderNotFound = errors.New("payment order not found")

// gatewayAPI is the slice of the gateway adapter used here.
type gatewayAPI interface {
	CreateOrder(ctx context.Context, req *razorpay.CreateOrderRequest) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

// Service sequences the purchase flow: order creation, verification, and
// the post-verification ledger updates. No ledger write happens before the
// signature verifies.
type Service struct {
	db      *gorm.DB
	gateway gatewayAPI
	subSvc  *subscription.Service
	histSvc *history.Service
	log     *zap.SugaredLogger
	sleep   func(time.Duration)
}

func NewService(db *gorm.DB, gw *razorpay.Gateway, sub *subscription.Service, hist *history.Service, log *zap.SugaredLogger) *Service {
	return &Service{db: db, gateway: gw, subSvc: sub, histSvc: hist, log: log, sleep: time.Sleep}
}

type CreateOrderRequest struct {
	UserID       string // empty when the buyer is not logged in yet
	AmountMajor  float64
	Currency     string
	PlanType     types.PlanType
	BillingCycle types.BillingCycle
}

// CreateOrder creates a gateway order and records it, so completion can be
// bound to the created amount and plan instead of trusting the client.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*razorpay.Order, error) {
	order, err := s.gateway.CreateOrder(ctx, &razorpay.CreateOrderRequest{
		AmountMajor:  req.AmountMajor,
		Currency:     req.Currency,
		PlanType:     req.PlanType,
		BillingCycle: req.BillingCycle,
	})
	if err != nil {
		return nil, err
	}

	record := &models.PaymentOrder{
		ID:           tool.GenerateUUIDV7(),
		OrderID:      order.OrderID,
		UserID:       req.UserID,
		AmountMinor:  order.AmountMinor,
		Currency:     order.Currency,
		PlanType:     req.PlanType,
		BillingCycle: req.BillingCycle,
		ReceiptID:    order.ReceiptID,
		Status:       types.OrderStatusCreated,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		// the gateway order exists but we lost the binding; fail the
		// checkout rather than accept an unverifiable completion later
		return nil, fmt.Errorf("failed to record payment order: %w", err)
	}
	return order, nil
}

// VerifyPayment is the bare signature check used by the hosted-checkout
// callback endpoint. A mismatch is a negative result, not an error.
func (s *Service) VerifyPayment(orderID, paymentID, signature string) bool {
	return s.gateway.VerifyPaymentSignature(orderID, paymentID, signature)
}

type CompleteRequest struct {
	UserID    string
	OrderID   string
	PaymentID string
	Signature string
}

type CompleteResult struct {
	Result  types.Result           `json:"result"`
	Payment *models.PaymentHistory `json:"payment,omitempty"`
	Order   *models.PaymentOrder   `json:"order,omitempty"`
}

// Complete finishes a checkout after the gateway reports payment: verify
// the signature against the stored order, mark the order paid, append the
// payment history entry, and update the subscription ledger. Plan, cycle
// and amount come from the stored order, never from the request.
func (s *Service) Complete(ctx context.Context, req *CompleteRequest) (*CompleteResult, error) {
	if req == nil || req.UserID == "" || req.OrderID == "" || req.PaymentID == "" {
		return nil, errors.New("userID, orderID and paymentID are required")
	}

	var order models.PaymentOrder
	if err := s.db.WithContext(ctx).Where("order_id = ?", req.OrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load payment order: %w", err)
	}

	if !s.gateway.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature) {
		logctx.FromCtx(ctx, s.log).Warnw("checkout_signature_mismatch",
			"order_id", req.OrderID, "payment_id", req.PaymentID, "user_id", req.UserID)
		return &CompleteResult{Result: types.Rejected("Invalid payment signature")}, nil
	}

	// Replay detection keys off the ledger itself, not the order status: the
	// webhook marks the order paid without writing the ledgers, and a failed
	// prior completion can leave the order paid with the ledgers empty. Only
	// an existing history entry means the work is done.
	existing, err := s.histSvc.FindByTransactionID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CompleteResult{Result: types.OK(), Payment: existing, Order: &order}, nil
	}

	if err := s.db.WithContext(ctx).Model(&order).Updates(map[string]interface{}{
		"status":     types.OrderStatusPaid,
		"payment_id": req.PaymentID,
		"user_id":    req.UserID,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	var payment *models.PaymentHistory
	err = s.withRetry(ctx, "record_payment", func() error {
		var recErr error
		payment, recErr = s.histSvc.RecordPayment(ctx, &history.RecordPaymentRequest{
			UserID:        req.UserID,
			PlanType:      order.PlanType,
			Amount:        float64(order.AmountMinor) / 100,
			Currency:      order.Currency,
			BillingCycle:  order.BillingCycle,
			PaymentMethod: "razorpay",
			TransactionID: req.PaymentID,
			Extra: &models.PaymentHistoryExtra{
				OrderID:   order.OrderID,
				ReceiptID: order.ReceiptID,
			},
		})
		return recErr
	})
	if err != nil {
		return nil, err
	}

	var subResult types.Result
	err = s.withRetry(ctx, "update_subscription", func() error {
		var subErr error
		subResult, subErr = s.subSvc.CreateSubscription(ctx, req.UserID, order.PlanType, order.BillingCycle, req.PaymentID)
		return subErr
	})
	if err != nil {
		return nil, err
	}

	if !subResult.Success {
		// paid but policy-rejected: surface the message, keep the payment
		// entry for support reconciliation
		logctx.FromCtx(ctx, s.log).Errorw("checkout_paid_but_rejected",
			"user_id", req.UserID, "order_id", req.OrderID, "message", subResult.Message)
		return &CompleteResult{Result: subResult, Payment: payment, Order: &order}, nil
	}

	logctx.FromCtx(ctx, s.log).Infow("checkout_completed",
		"user_id", req.UserID, "order_id", req.OrderID, "payment_id", req.PaymentID,
		"plan_type", order.PlanType, "billing_cycle", order.BillingCycle)
	return &CompleteResult{Result: types.OK(), Payment: payment, Order: &order}, nil
}

// MarkOrderPaidByWebhook updates order state from an asynchronous gateway
// notification. Ledger updates still require the user-bound completion call.
func (s *Service) MarkOrderPaidByWebhook(ctx context.Context, orderID, paymentID string) error {
	res := s.db.WithContext(ctx).Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, types.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":     types.OrderStatusPaid,
			"payment_id": paymentID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark order paid: %w", res.Error)
	}
	return nil
}

func (s *Service) withRetry(ctx context.Context, name string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= ledgerWriteAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		logctx.FromCtx(ctx, s.log).Warnw("ledger_write_retry",
			"op", name, "attempt", attempt, "err", err)
		if attempt < ledgerWriteAttempts {
			s.sleep(ledgerWriteBackoff)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, ledgerWriteAttempts, err)
}
