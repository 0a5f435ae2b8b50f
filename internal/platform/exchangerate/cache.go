package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wigglebyte/console/pkg/config"
	"github.com/wigglebyte/console/pkg/logctx"
	"github.com/wigglebyte/console/pkg/metrics"
)

// Cache supplies the USD->INR multiplier for price conversion. A single
// cached entry is served for up to the configured TTL; on any fetch failure
// the fallback rate is returned instead of an error, because currency
// conversion must never block checkout. The value is a best-effort price
// hint, not authoritative money math.
type Cache struct {
	apiURL   string
	fallback float64
	ttl      time.Duration
	client   *http.Client
	log      *zap.SugaredLogger
	metrics  *metrics.Prometheus
	now      func() time.Time

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
}

func New(cfg *config.Config, log *zap.SugaredLogger, m *metrics.Prometheus) *Cache {
	ttl := time.Duration(cfg.ExchangeRate.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		apiURL:   cfg.ExchangeRate.APIURL,
		fallback: cfg.ExchangeRate.FallbackRate,
		ttl:      ttl,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Get returns the cached rate if fetched within the freshness window,
// otherwise refreshes. Never returns an error; failures yield the fallback.
func (c *Cache) Get(ctx context.Context) float64 {
	c.mu.Lock()
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		rate := c.rate
		c.mu.Unlock()
		return rate
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh fetches a fresh rate and updates the cache, falling back on error.
func (c *Cache) Refresh(ctx context.Context) float64 {
	rate, err := c.fetch(ctx)
	if err != nil {
		logctx.FromCtx(ctx, c.log).Warnw("exchange_rate_fetch_failed", "err", err, "fallback", c.fallback)
		c.observe("fallback")
		return c.fallback
	}
	c.observe("ok")

	c.mu.Lock()
	c.rate = rate
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return rate
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.RateFetches.WithLabelValues(result).Inc()
	}
}

type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (c *Cache) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	rate, ok := body.Rates["INR"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("INR rate missing from response")
	}
	return rate, nil
}

// ConvertUSDToINR converts a USD price to whole rupees using rate, rounding
// to the nearest unit the same way the pricing page does.
func ConvertUSDToINR(usd, rate float64) float64 {
	inr := usd * rate
	if inr < 0 {
		return 0
	}
	// round to nearest whole unit
	return float64(int64(inr + 0.5))
}
