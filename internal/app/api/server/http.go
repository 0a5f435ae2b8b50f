package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wigglebyte/console/docs"
	"github.com/wigglebyte/console/internal/app/api/handlers"
	mw "github.com/wigglebyte/console/internal/app/api/middleware"
	"github.com/wigglebyte/console/internal/app/service/checkout"
	"github.com/wigglebyte/console/internal/app/service/history"
	"github.com/wigglebyte/console/internal/app/service/notificationlog"
	subsvc "github.com/wigglebyte/console/internal/app/service/subscription"
	usersvc "github.com/wigglebyte/console/internal/app/service/user"
	"github.com/wigglebyte/console/internal/platform/exchangerate"
	"github.com/wigglebyte/console/internal/platform/razorpay"
	cfgpkg "github.com/wigglebyte/console/pkg/config"
	metrics "github.com/wigglebyte/console/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func newMetrics(cfg *cfgpkg.Config, log *zap.SugaredLogger) *metrics.Prometheus {
	p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
		ReqCntURLLabelMappingFn: func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return c.Request.URL.Path
		},
		Logger: log,
	})
	if cfg != nil && cfg.MetricsAddr != "" {
		p.SetListenAddress(cfg.MetricsAddr)
	}
	return p
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	p *metrics.Prometheus,
	gw *razorpay.Gateway,
	co *checkout.Service,
	sub *subsvc.Service,
	hist *history.Service,
	users *usersvc.Service,
	rates *exchangerate.Cache,
	notifLogs *notificationlog.Service,
) {
	p.Use(r)
	if cfg != nil && cfg.MetricsAddr != "" {
		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Hosted-checkout boundary: unauthenticated, client wire contract
	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterPaymentRoutes(api, co, rates, cfg, p, log)
	handlers.RegisterWebhookRoutes(api.Group("/webhook"), gw, co, notifLogs, p, log)

	// Console APIs: session token required
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg.Auth.JWTSecret))
	handlers.RegisterSubscriptionRoutes(apiV1, sub)
	handlers.RegisterHistoryRoutes(apiV1, hist)
	handlers.RegisterCheckoutRoutes(apiV1, co, p)
	handlers.RegisterUserRoutes(apiV1, users)
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), hist, sub)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Provide(newMetrics),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
