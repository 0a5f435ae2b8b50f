package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/logctx"
	"github.com/wigglebyte/console/pkg/tool"
	"github.com/wigglebyte/console/pkg/types"
)

const trialDuration = 7 * 24 * time.Hour

// Service enforces plan-transition policy and answers whether a user is
// entitled to download/use the product right now.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	now func() time.Time
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

// GetSubscription returns the user's subscription record, or nil when the
// user has never held one. No side effects.
func (s *Service) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	return s.getSubscription(ctx, s.db, userID, false)
}

func (s *Service) getSubscription(ctx context.Context, tx *gorm.DB, userID string, forUpdate bool) (*models.Subscription, error) {
	q := tx.WithContext(ctx)
	if forUpdate {
		q = lockForUpdate(q)
	}
	var sub models.Subscription
	if err := q.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// lockForUpdate applies a row lock so concurrent read-then-decide-then-write
// sequences for one user serialize instead of double-granting. SQLite (used
// in tests) has no FOR UPDATE; its writes are single-writer anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateFreeTrial starts the 7-day trial. It is rejected when the user has
// already consumed a trial (HasUsedFreeTrial is sticky) or currently holds
// any active subscription.
func (s *Service) CreateFreeTrial(ctx context.Context, userID string) (types.Result, error) {
	if userID == "" {
		return types.Result{}, errors.New("userID is required")
	}

	var result types.Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.getSubscription(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		if current != nil {
			if current.HasUsedFreeTrial {
				result = types.Rejected("Free trial already used.")
				return nil
			}
			if current.ActiveAt(s.now()) {
				result = types.Rejected("Cannot activate free trial while another plan is active.")
				return nil
			}
		}

		now := s.now()
		record := &models.Subscription{
			UserID:           userID,
			PlanType:         types.PlanTypeFree,
			BillingCycle:     types.BillingCycleTrial,
			Status:           types.SubscriptionStatusActive,
			StartDate:        now,
			EndDate:          now.Add(trialDuration),
			DownloadEnabled:  true,
			HasUsedFreeTrial: true,
		}
		if err := s.overwrite(ctx, tx, current, record); err != nil {
			return err
		}
		result = types.OK()
		return nil
	})
	if err != nil {
		return types.Result{}, fmt.Errorf("failed to create free trial: %w", err)
	}

	if result.Success {
		logctx.FromCtx(ctx, s.log).Infow("free_trial_created", "user_id", userID)
	}
	return result, nil
}

// CreateSubscription activates a paid plan for the user. Transition policy,
// evaluated against the current record: an active premium plan blocks
// moving to simple or free until it expires; an active simple plan blocks
// free but allows the premium upgrade. HasUsedFreeTrial is carried forward
// unchanged: buying a paid plan deliberately does not consume the trial.
func (s *Service) CreateSubscription(ctx context.Context, userID string, plan types.PlanType, cycle types.BillingCycle, paymentID string) (types.Result, error) {
	if userID == "" {
		return types.Result{}, errors.New("userID is required")
	}
	if !plan.Valid() || !cycle.Valid() {
		return types.Result{}, fmt.Errorf("invalid plan %q or billing cycle %q", plan, cycle)
	}

	var result types.Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.getSubscription(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		if current != nil && current.ActiveAt(s.now()) {
			switch current.PlanType {
			case types.PlanTypePremium:
				if plan == types.PlanTypeSimple || plan == types.PlanTypeFree {
					result = types.Rejected("Cannot downgrade from premium until it expires.")
					return nil
				}
			case types.PlanTypeSimple:
				if plan == types.PlanTypeFree {
					result = types.Rejected("Cannot use free trial after purchasing a plan.")
					return nil
				}
			}
		}

		now := s.now()
		endDate := now.AddDate(1, 0, 0)
		if cycle == types.BillingCycleMonthly {
			endDate = now.AddDate(0, 1, 0)
		}

		record := &models.Subscription{
			UserID:          userID,
			PlanType:        plan,
			BillingCycle:    cycle,
			Status:          types.SubscriptionStatusActive,
			StartDate:       now,
			EndDate:         endDate,
			LastPaymentID:   paymentID,
			DownloadEnabled: true,
			// preserve the previous value; a paid purchase never forces it
			HasUsedFreeTrial: current != nil && current.HasUsedFreeTrial,
		}
		if err := s.overwrite(ctx, tx, current, record); err != nil {
			return err
		}
		result = types.OK()
		return nil
	})
	if err != nil {
		return types.Result{}, fmt.Errorf("failed to create subscription: %w", err)
	}

	if result.Success {
		logctx.FromCtx(ctx, s.log).Infow("subscription_created",
			"user_id", userID, "plan_type", plan, "billing_cycle", cycle, "payment_id", paymentID)
	}
	return result, nil
}

// overwrite replaces the user's single subscription row, keeping the row
// identity when one already exists.
func (s *Service) overwrite(ctx context.Context, tx *gorm.DB, current, record *models.Subscription) error {
	if current != nil {
		record.ID = current.ID
		record.CreatedAt = current.CreatedAt
	} else {
		record.ID = tool.GenerateUUIDV7()
	}
	if err := tx.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// CheckSubscriptionStatus reports whether the user is entitled right now.
// When the end date has passed it lazily persists the expired transition as
// a side effect, so storage catches up with reality on read.
func (s *Service) CheckSubscriptionStatus(ctx context.Context, userID string) (bool, error) {
	sub, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}

	if sub.EndDate.Before(s.now()) {
		if sub.Status != types.SubscriptionStatusExpired || sub.DownloadEnabled {
			if err := s.updateStatus(ctx, userID, types.SubscriptionStatusExpired); err != nil {
				return false, err
			}
			logctx.FromCtx(ctx, s.log).Infow("subscription_expired_on_read", "user_id", userID)
		}
		return false, nil
	}

	return sub.Status == types.SubscriptionStatusActive && sub.DownloadEnabled, nil
}

func (s *Service) updateStatus(ctx context.Context, userID string, status types.SubscriptionStatus) error {
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status": status,
			// invariant: download_enabled mirrors status == active
			"download_enabled": status == types.SubscriptionStatusActive,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	return nil
}

// ExpireOverdue flips every active row whose end date has passed. Used by
// the daily sweep so reporting queries over status stay honest; the lazy
// on-read transition remains the authoritative path.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", types.SubscriptionStatusActive, s.now()).
		Updates(map[string]interface{}{
			"status":           types.SubscriptionStatusExpired,
			"download_enabled": false,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire overdue subscriptions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
