package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/wigglebyte/console/internal/app/service/checkout"
	"github.com/wigglebyte/console/internal/app/service/notificationlog"
	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/internal/platform/razorpay"
	"github.com/wigglebyte/console/pkg/logctx"
	"github.com/wigglebyte/console/pkg/metrics"
)

// webhookEnvelope is the slice of the gateway's event payload we act on.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// @Summary      Razorpay Webhook
// @Description  Handles asynchronous gateway events. The raw body is authenticated with the webhook secret before any state changes.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body string true "Gateway event payload"
// @Success      200  {object}  map[string]string
// @Router       /api/webhook/razorpay [post]
func ApiRazorpayWebhook(gw *razorpay.Gateway, svc *checkout.Service, logs *notificationlog.Service, p *metrics.Prometheus, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		sig := c.GetHeader("X-Razorpay-Signature")
		if !gw.VerifyWebhookSignature(body, sig) {
			p.WebhookEvents.WithLabelValues("unknown", "unauthenticated").Inc()
			logctx.FromGin(c, log).Warnw("webhook_signature_mismatch")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
			return
		}

		var env webhookEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
			return
		}

		entry := &models.PaymentNotificationLog{
			Event:            env.Event,
			OrderID:          env.Payload.Payment.Entity.OrderID,
			PaymentID:        env.Payload.Payment.Entity.ID,
			TraceID:          c.GetString("traceID"),
			NotificationTime: time.Now(),
			Data:             datatypes.JSON(body),
			Status:           models.PaymentNotificationLogStatusReceived,
		}

		logctx.FromGin(c, log).Infow("webhook_received", "event", env.Event,
			"order_id", entry.OrderID, "payment_id", entry.PaymentID)

		switch env.Event {
		case "payment.captured":
			if err := svc.MarkOrderPaidByWebhook(c.Request.Context(), entry.OrderID, entry.PaymentID); err != nil {
				p.WebhookEvents.WithLabelValues(env.Event, "handle_failed").Inc()
				logctx.FromGin(c, log).Errorw("webhook_handle_error", "event", env.Event, "error", err.Error())
				entry.Status = models.PaymentNotificationLogStatusHandleFailed
				logs.Save(c.Request.Context(), entry)
				c.JSON(http.StatusOK, gin.H{"status": "error"})
				return
			}
			entry.Status = models.PaymentNotificationLogStatusHandled
		default:
			// other events are recorded but not acted on
		}

		p.WebhookEvents.WithLabelValues(env.Event, string(entry.Status)).Inc()
		logs.Save(c.Request.Context(), entry)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func RegisterWebhookRoutes(r gin.IRouter, gw *razorpay.Gateway, svc *checkout.Service, logs *notificationlog.Service, p *metrics.Prometheus, log *zap.SugaredLogger) {
	r.POST("/razorpay", ApiRazorpayWebhook(gw, svc, logs, p, log))
}
