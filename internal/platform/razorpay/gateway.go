package razorpay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	rzpsdk "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"

	"github.com/wigglebyte/console/pkg/config"
	"github.com/wigglebyte/console/pkg/logctx"
	"github.com/wigglebyte/console/pkg/tool"
	"github.com/wigglebyte/console/pkg/types"
)

// orderAPI is the slice of the Razorpay SDK the gateway depends on; tests
// substitute a stub here.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Gateway bridges to the Razorpay API: server-side order creation and
// server-side signature verification. It holds the only copy of the key
// secret; nothing here is safe to expose to the client except PublicKeyID.
type Gateway struct {
	orders        orderAPI
	keySecret     string
	webhookSecret string
	publicKeyID   string
	log           *zap.SugaredLogger
	now           func() time.Time
}

func New(cfg *config.Config, log *zap.SugaredLogger) (*Gateway, error) {
	if cfg.Razorpay.KeyID == "" || cfg.Razorpay.KeySecret == "" {
		return nil, errors.New("razorpay configuration is incomplete: key_id and key_secret are required")
	}
	client := rzpsdk.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	return &Gateway{
		orders:        client.Order,
		keySecret:     cfg.Razorpay.KeySecret,
		webhookSecret: cfg.Razorpay.WebhookSecret,
		publicKeyID:   cfg.Razorpay.PublicKeyID,
		log:           log,
		now:           time.Now,
	}, nil
}

// PublicKeyID is the client-side key id used to initialize the hosted
// checkout UI.
func (g *Gateway) PublicKeyID() string { return g.publicKeyID }

type CreateOrderRequest struct {
	// AmountMajor is in major currency units (e.g. rupees, not paise).
	AmountMajor  float64
	Currency     string
	PlanType     types.PlanType
	BillingCycle types.BillingCycle
}

type Order struct {
	OrderID     string
	AmountMinor int64
	Currency    string
	ReceiptID   string
}

// Error is a gateway failure mapped to a user-facing message. The raw
// upstream message is retained in Details for diagnostics and is safe to
// return in the response body; it never contains credentials.
type Error struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Fixed mapping of upstream error codes to user-facing strings. Any code
// outside this table surfaces as a generic failure.
var errorMessages = map[string]struct {
	message string
	status  int
}{
	"BAD_REQUEST_ERROR": {"Invalid payment request", http.StatusBadRequest},
	"GATEWAY_ERROR":     {"Payment gateway error", http.StatusBadGateway},
	"SERVER_ERROR":      {"Payment server error", http.StatusInternalServerError},
	"UNAUTHORIZED":      {"Invalid payment credentials", http.StatusUnauthorized},
}

// CreateOrder creates a Razorpay order for the given major-unit amount.
// The amount is converted to the gateway's minor-unit integer and the plan
// metadata is attached as order notes. Validation failures return an *Error
// with a 400 status; upstream failures are mapped through errorMessages.
func (g *Gateway) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if req == nil || req.AmountMajor <= 0 {
		return nil, &Error{StatusCode: http.StatusBadRequest, Message: "Invalid amount"}
	}
	if req.PlanType == "" || req.BillingCycle == "" {
		return nil, &Error{StatusCode: http.StatusBadRequest, Message: "Missing plan details"}
	}
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	amountMinor := ToMinorUnits(req.AmountMajor)
	receipt := tool.GenerateReceiptID(g.now())

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"notes": map[string]interface{}{
			"planType":     string(req.PlanType),
			"billingCycle": string(req.BillingCycle),
		},
	}

	body, err := g.orders.Create(data, nil)
	if err != nil {
		mapped := mapGatewayError(err)
		logctx.FromCtx(ctx, g.log).Errorw("razorpay_order_create_failed",
			"error", err.Error(), "mapped", mapped.Message, "status", mapped.StatusCode)
		return nil, mapped
	}

	order := &Order{AmountMinor: amountMinor, Currency: currency, ReceiptID: receipt}
	if id, ok := body["id"].(string); ok {
		order.OrderID = id
	}
	if amt, ok := body["amount"].(float64); ok {
		order.AmountMinor = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok {
		order.Currency = cur
	}
	if order.OrderID == "" {
		return nil, &Error{StatusCode: http.StatusInternalServerError, Message: "Failed to create payment", Details: "gateway returned no order id"}
	}

	logctx.FromCtx(ctx, g.log).Infow("razorpay_order_created",
		"order_id", order.OrderID, "amount_minor", order.AmountMinor, "currency", order.Currency)
	return order, nil
}

func mapGatewayError(err error) *Error {
	raw := err.Error()
	for code, m := range errorMessages {
		if strings.Contains(raw, code) {
			return &Error{StatusCode: m.status, Message: m.message, Details: raw}
		}
	}
	return &Error{StatusCode: http.StatusInternalServerError, Message: "Failed to create payment", Details: raw}
}

// ToMinorUnits converts a major-unit amount to the gateway's minor-unit
// integer (x100), rounding half-up at the cent boundary. The epsilon keeps
// binary float drift (10.005*100 -> 1000.4999...) from tipping a half-cent
// down without also pulling genuine sub-half-cent amounts up.
func ToMinorUnits(amountMajor float64) int64 {
	return int64(math.Round(amountMajor*100 + 1e-9))
}
