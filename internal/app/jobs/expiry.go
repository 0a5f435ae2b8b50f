package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wigglebyte/console/internal/app/service/subscription"
	cfgpkg "github.com/wigglebyte/console/pkg/config"
)

// ExpirySweeper runs the scheduled subscription expiry sweep. Reads already
// expire overdue rows lazily; the sweep catches users who never come back.
type ExpirySweeper struct {
	cron *cron.Cron
	sub  *subscription.Service
	log  *zap.SugaredLogger
	spec string
}

func NewExpirySweeper(cfg *cfgpkg.Config, sub *subscription.Service, log *zap.SugaredLogger) *ExpirySweeper {
	return &ExpirySweeper{
		cron: cron.New(),
		sub:  sub,
		log:  log,
		spec: cfg.ExpirySweep,
	}
}

func (s *ExpirySweeper) Run() {
	n, err := s.sub.ExpireOverdue(context.Background())
	if err != nil {
		s.log.Errorw("expiry_sweep_failed", "error", err.Error())
		return
	}
	s.log.Infow("expiry_sweep_done", "expired", n)
}

func (s *ExpirySweeper) start() error {
	if s.spec == "" {
		s.log.Infow("expiry sweep disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.Run); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("expiry sweep scheduled", "spec", s.spec)
	return nil
}

func registerSweeper(lc fx.Lifecycle, s *ExpirySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.start()
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := s.cron.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewExpirySweeper),
	fx.Invoke(registerSweeper),
)
