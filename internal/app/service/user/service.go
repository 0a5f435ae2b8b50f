package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/logctx"
)

const (
	verifyWriteAttempts = 3
	verifyWriteBackoff  = time.Second
)

// Service maintains the users collection: profile metadata mirrored from
// the identity provider.
type Service struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	sleep func(time.Duration)
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log, sleep: time.Sleep}
}

// GetProfile returns the user's stored profile, or nil when none exists.
func (s *Service) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UpsertProfile writes profile fields on signup/login sync.
func (s *Service) UpsertProfile(ctx context.Context, u *models.User) error {
	if u == nil || u.UID == "" {
		return errors.New("uid is required")
	}
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// MarkEmailVerified persists the verified flag. The write is retried a few
// times with a short pause because it runs right after the provider's
// verification redirect, when the profile row may not have replicated yet.
func (s *Service) MarkEmailVerified(ctx context.Context, uid string) error {
	var err error
	for attempt := 1; attempt <= verifyWriteAttempts; attempt++ {
		now := time.Now()
		err = s.db.WithContext(ctx).Model(&models.User{}).
			Where("uid = ?", uid).
			Updates(map[string]interface{}{
				"email_verified": true,
				"verified_at":    now,
			}).Error
		if err == nil {
			logctx.FromCtx(ctx, s.log).Infow("email_verified", "uid", uid)
			return nil
		}
		logctx.FromCtx(ctx, s.log).Warnw("email_verified_write_retry", "uid", uid, "attempt", attempt, "err", err)
		if attempt < verifyWriteAttempts {
			s.sleep(verifyWriteBackoff)
		}
	}
	return fmt.Errorf("failed to persist email verification after %d attempts: %w", verifyWriteAttempts, err)
}

var Module = fx.Options(
	fx.Provide(NewService),
)
