package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/wigglebyte/console/internal/app/service/checkout"
	"github.com/wigglebyte/console/internal/platform/exchangerate"
	"github.com/wigglebyte/console/internal/platform/razorpay"
	"github.com/wigglebyte/console/pkg/config"
	"github.com/wigglebyte/console/pkg/logctx"
	"github.com/wigglebyte/console/pkg/metrics"
	"github.com/wigglebyte/console/pkg/types"
)

// The payment boundary endpoints keep the hosted-checkout client's wire
// contract: plain JSON bodies, camelCase keys, errors as {"error": ...},
// not the console envelope.

type createPaymentRequest struct {
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	PlanType     string  `json:"planType"`
	BillingCycle string  `json:"billingCycle"`
}

type createPaymentResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// @Summary      Create payment order
// @Description  Creates a gateway order for the selected plan. Amount is in major currency units and is converted to the gateway's minor-unit integer.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body createPaymentRequest true "Order parameters"
// @Success      200  {object}  createPaymentResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/create-payment [post]
func ApiCreatePayment(svc *checkout.Service, cfg *config.Config, p *metrics.Prometheus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		if req.PlanType == "" || req.BillingCycle == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing plan details"})
			return
		}
		plan := types.PlanType(req.PlanType)
		cycle := types.BillingCycle(req.BillingCycle)
		if cfg.GetPlanItem(plan, cycle) == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
			return
		}
		if !plan.Paid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Plan is not purchasable"})
			return
		}

		order, err := svc.CreateOrder(c.Request.Context(), &checkout.CreateOrderRequest{
			AmountMajor:  req.Amount,
			Currency:     req.Currency,
			PlanType:     plan,
			BillingCycle: cycle,
		})
		if err != nil {
			p.OrdersCreated.WithLabelValues("error").Inc()
			var gwErr *razorpay.Error
			if errors.As(err, &gwErr) {
				c.JSON(gwErr.StatusCode, gin.H{"error": gwErr.Message, "details": gwErr.Details})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment", "details": err.Error()})
			return
		}

		p.OrdersCreated.WithLabelValues("ok").Inc()
		c.JSON(http.StatusOK, createPaymentResponse{
			OrderID:  order.OrderID,
			Amount:   order.AmountMinor,
			Currency: order.Currency,
		})
	}
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// @Summary      Verify payment signature
// @Description  Recomputes the HMAC digest for the completed payment and compares it against the gateway-supplied signature.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body verifyPaymentRequest true "Gateway completion proof"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/verify-payment [post]
func ApiVerifyPayment(svc *checkout.Service, p *metrics.Prometheus, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing verification fields"})
			return
		}

		if !svc.VerifyPayment(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			p.PaymentsVerified.WithLabelValues("mismatch").Inc()
			logctx.FromGin(c, log).Warnw("payment signature mismatch", "order_id", req.RazorpayOrderID, "payment_id", req.RazorpayPaymentID)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
			return
		}

		p.PaymentsVerified.WithLabelValues("ok").Inc()
		c.JSON(http.StatusOK, gin.H{
			"verified":  true,
			"paymentId": req.RazorpayPaymentID,
			"orderId":   req.RazorpayOrderID,
		})
	}
}

// @Summary      USD to INR exchange rate
// @Description  Cache-backed rate with a 1-hour freshness window; falls back to a fixed rate on upstream failure.
// @Tags         Payment
// @Produce      json
// @Success      200  {object}  map[string]float64
// @Router       /api/exchange-rate [get]
func ApiExchangeRate(cache *exchangerate.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rate": cache.Get(c.Request.Context())})
	}
}

type planEntry struct {
	*types.PlanItem
	PriceINR float64 `json:"priceInr"`
}

type plansResponse struct {
	Plans         []planEntry `json:"plans"`
	Rate          float64     `json:"rate"`
	RazorpayKeyID string      `json:"razorpayKeyId"`
}

// @Summary      Plan catalog
// @Description  Purchasable plans with USD and converted INR prices, plus the public gateway key id used to initialize the hosted checkout UI.
// @Tags         Payment
// @Produce      json
// @Success      200  {object}  plansResponse
// @Router       /api/plans [get]
func ApiGetPlans(cfg *config.Config, cache *exchangerate.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		rate := cache.Get(c.Request.Context())
		c.JSON(http.StatusOK, plansResponse{
			Plans: lo.Map(cfg.Plans, func(item *types.PlanItem, _ int) planEntry {
				return planEntry{
					PlanItem: item,
					PriceINR: exchangerate.ConvertUSDToINR(item.PriceUSD, rate),
				}
			}),
			Rate:          rate,
			RazorpayKeyID: cfg.Razorpay.PublicKeyID,
		})
	}
}

func RegisterPaymentRoutes(r gin.IRouter, svc *checkout.Service, cache *exchangerate.Cache, cfg *config.Config, p *metrics.Prometheus, log *zap.SugaredLogger) {
	r.POST("/create-payment", ApiCreatePayment(svc, cfg, p))
	r.POST("/verify-payment", ApiVerifyPayment(svc, p, log))
	r.GET("/exchange-rate", ApiExchangeRate(cache))
	r.GET("/plans", ApiGetPlans(cfg, cache))
}
