package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var durationBuckets = []float64{
	// fast responses
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	// medium
	750, 1000, 1500, 2000,
	// slow (gateway round trips)
	3000, 5000, 7500, 10000, 15000, 30000,
}

// URLLabelMappingFn controls the cardinality of the "url" label; the server
// passes gin's FullPath so route templates, not raw paths, become labels.
type URLLabelMappingFn func(c *gin.Context) string

// Prometheus serves request metrics plus the payment-domain counters on a
// dedicated listener, separate from the API port.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec

	OrdersCreated     *prometheus.CounterVec
	PaymentsVerified  *prometheus.CounterVec
	CheckoutCompleted *prometheus.CounterVec
	WebhookEvents     *prometheus.CounterVec
	RateFetches       *prometheus.CounterVec

	registry      *prometheus.Registry
	listenAddress string
	urlLabelFn    URLLabelMappingFn
	log           *zap.SugaredLogger
}

type NewPrometheusOptions struct {
	ReqCntURLLabelMappingFn URLLabelMappingFn
	Logger                  *zap.SugaredLogger
}

func NewPrometheus(opts NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		registry:   prometheus.NewRegistry(),
		urlLabelFn: opts.ReqCntURLLabelMappingFn,
		log:        opts.Logger,
	}
	if p.urlLabelFn == nil {
		p.urlLabelFn = func(c *gin.Context) string { return c.Request.URL.Path }
	}

	p.reqCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "req_total",
		Help: "How many HTTP requests processed, partitioned by status code, method and url.",
	}, []string{"code", "method", "url"})
	p.reqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "req_dur_ms",
		Help:    "The HTTP request latencies in milliseconds.",
		Buckets: durationBuckets,
	}, []string{"code", "method", "url"})

	p.OrdersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_orders_created_total",
		Help: "Gateway orders created, partitioned by result.",
	}, []string{"result"})
	p.PaymentsVerified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Signature verification outcomes.",
	}, []string{"result"})
	p.CheckoutCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_completed_total",
		Help: "Checkout completion outcomes.",
	}, []string{"result"})
	p.WebhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook events, partitioned by event and handling status.",
	}, []string{"event", "status"})
	p.RateFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exchange_rate_fetches_total",
		Help: "Upstream exchange-rate fetches, partitioned by result.",
	}, []string{"result"})

	p.registry.MustRegister(p.reqCnt, p.reqDur,
		p.OrdersCreated, p.PaymentsVerified, p.CheckoutCompleted, p.WebhookEvents, p.RateFetches)
	return p
}

func (p *Prometheus) SetListenAddress(addr string) {
	p.listenAddress = addr
}

// Use attaches the request-metrics middleware to the engine and starts the
// metrics listener when a listen address was set.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.handlerFunc())
	if p.listenAddress == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(p.listenAddress, mux); err != nil && p.log != nil {
			p.log.Errorf("metrics listener error: %v", err)
		}
	}()
}

func (p *Prometheus) handlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlLabelFn(c)
		elapsed := float64(time.Since(start).Milliseconds())

		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
	}
}
