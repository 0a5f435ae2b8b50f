package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wigglebyte/console/internal/app/api/middleware"
	"github.com/wigglebyte/console/internal/app/service/checkout"
	"github.com/wigglebyte/console/pkg/metrics"
	"github.com/wigglebyte/console/pkg/response"
)

type completeCheckoutRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// @Summary      Complete checkout
// @Description  Verifies the gateway signature against the stored order, then appends the payment ledger entry and activates the purchased plan.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body completeCheckoutRequest true "Gateway completion proof"
// @Success      200  {object}  handlers.RespCheckout
// @Router       /api/v1/checkout/complete [post]
func ApiCompleteCheckout(svc *checkout.Service, p *metrics.Prometheus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req completeCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := svc.Complete(c.Request.Context(), &checkout.CompleteRequest{
			UserID:    middleware.UserID(c),
			OrderID:   req.RazorpayOrderID,
			PaymentID: req.RazorpayPaymentID,
			Signature: req.RazorpaySignature,
		})
		if err != nil {
			if errors.Is(err, checkout.ErrOrderNotFound) {
				p.CheckoutCompleted.WithLabelValues("unknown_order").Inc()
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			p.CheckoutCompleted.WithLabelValues("error").Inc()
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		if res.Result.Success {
			p.CheckoutCompleted.WithLabelValues("ok").Inc()
		} else {
			p.CheckoutCompleted.WithLabelValues("rejected").Inc()
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterCheckoutRoutes(r gin.IRouter, svc *checkout.Service, p *metrics.Prometheus) {
	r.POST("/checkout/complete", ApiCompleteCheckout(svc, p))
}
