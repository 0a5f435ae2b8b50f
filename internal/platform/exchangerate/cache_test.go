package exchangerate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/wigglebyte/console/pkg/config"
)

func newTestCache(url string, ttlSeconds int) *Cache {
	cfg := &config.Config{}
	cfg.ExchangeRate.APIURL = url
	cfg.ExchangeRate.FallbackRate = 85.60
	cfg.ExchangeRate.TTLSeconds = ttlSeconds
	return New(cfg, zap.NewNop().Sugar(), nil)
}

func TestGet_CachesWithinTTL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"rates":{"INR":83.25,"EUR":0.92}}`))
	}))
	defer srv.Close()

	c := newTestCache(srv.URL, 3600)
	ctx := context.Background()

	assert.Equal(t, 83.25, c.Get(ctx))
	assert.Equal(t, 83.25, c.Get(ctx))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGet_RefetchesAfterTTL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"rates":{"INR":84.10}}`))
	}))
	defer srv.Close()

	c := newTestCache(srv.URL, 3600)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	ctx := context.Background()
	assert.Equal(t, 84.10, c.Get(ctx))

	current = current.Add(59 * time.Minute)
	c.Get(ctx)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	current = current.Add(2 * time.Minute)
	c.Get(ctx)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestGet_FallbackOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestCache(srv.URL, 3600)
	assert.Equal(t, 85.60, c.Get(context.Background()))
}

func TestGet_FallbackOnMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>err</html>"},
		{"missing INR", `{"rates":{"EUR":0.92}}`},
		{"zero rate", `{"rates":{"INR":0}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestCache(srv.URL, 3600)
			assert.Equal(t, 85.60, c.Get(context.Background()))
		})
	}
}

func TestGet_FailureDoesNotPoisonCache(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"rates":{"INR":83.99}}`))
	}))
	defer srv.Close()

	c := newTestCache(srv.URL, 3600)
	ctx := context.Background()

	assert.Equal(t, 85.60, c.Get(ctx))

	// upstream recovers; the fallback must not have been cached as fresh
	fail.Store(false)
	assert.Equal(t, 83.99, c.Get(ctx))
}

func TestConvertUSDToINR(t *testing.T) {
	tests := []struct {
		usd  float64
		rate float64
		want float64
	}{
		{9.99, 85.60, 855},
		{19.99, 85.60, 1711},
		{199.99, 85.60, 17119},
		{0, 85.60, 0},
		{-1, 85.60, 0},
		{10, 83.25, 833},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertUSDToINR(tt.usd, tt.rate), "usd=%v rate=%v", tt.usd, tt.rate)
	}
}
