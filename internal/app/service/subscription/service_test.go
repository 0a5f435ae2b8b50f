package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/types"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}))
	return db
}

func newTestService(t *testing.T, at time.Time) *Service {
	s := NewService(setupTestDB(t), zap.NewNop().Sugar())
	s.now = func() time.Time { return at }
	return s
}

func TestCreateFreeTrial_NewUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	res, err := s.CreateFreeTrial(ctx, "user1")
	require.NoError(t, err)
	assert.True(t, res.Success)

	sub, err := s.GetSubscription(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, types.PlanTypeFree, sub.PlanType)
	assert.Equal(t, types.BillingCycleTrial, sub.BillingCycle)
	assert.Equal(t, types.SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.DownloadEnabled)
	assert.True(t, sub.HasUsedFreeTrial)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), sub.EndDate, time.Second)
}

func TestCreateFreeTrial_SecondTrialRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	_, err := s.CreateFreeTrial(ctx, "user1")
	require.NoError(t, err)

	// even long after the first trial expired
	s.now = func() time.Time { return now.AddDate(1, 0, 0) }
	res, err := s.CreateFreeTrial(ctx, "user1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Free trial already used.", res.Message)
}

func TestCreateFreeTrial_BlockedByActivePlan(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	res, err := s.CreateSubscription(ctx, "user1", types.PlanTypeSimple, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)
	require.True(t, res.Success)

	// the paid purchase did not consume the trial flag, so the active-plan
	// guard is what rejects here
	res, err = s.CreateFreeTrial(ctx, "user1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Cannot activate free trial while another plan is active.", res.Message)
}

func TestCreateSubscription_EndDates(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		cycle types.BillingCycle
		want  time.Time
	}{
		{"monthly adds one month", types.BillingCycleMonthly, now.AddDate(0, 1, 0)},
		{"yearly adds one year", types.BillingCycleYearly, now.AddDate(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, now)
			res, err := s.CreateSubscription(context.Background(), "user1", types.PlanTypePremium, tt.cycle, "pay_1")
			require.NoError(t, err)
			require.True(t, res.Success)

			sub, err := s.GetSubscription(context.Background(), "user1")
			require.NoError(t, err)
			assert.WithinDuration(t, tt.want, sub.EndDate, time.Second)
		})
	}
}

func TestCreateSubscription_PremiumBlocksDowngrade(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	res, err := s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = s.CreateSubscription(ctx, "user1", types.PlanTypeSimple, types.BillingCycleMonthly, "pay_2")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Cannot downgrade from premium until it expires.", res.Message)

	// renewal at the same tier stays allowed
	res, err = s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleYearly, "pay_3")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestCreateSubscription_DowngradeAllowedAfterExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	_, err := s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)

	s.now = func() time.Time { return now.AddDate(0, 2, 0) }
	res, err := s.CreateSubscription(ctx, "user1", types.PlanTypeSimple, types.BillingCycleMonthly, "pay_2")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestCreateSubscription_SimpleAllowsPremiumUpgrade(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	_, err := s.CreateSubscription(ctx, "user1", types.PlanTypeSimple, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)

	res, err := s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleMonthly, "pay_2")
	require.NoError(t, err)
	assert.True(t, res.Success)

	sub, err := s.GetSubscription(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, types.PlanTypePremium, sub.PlanType)
	assert.Equal(t, "pay_2", sub.LastPaymentID)
}

func TestCreateSubscription_PreservesHasUsedFreeTrial(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	_, err := s.CreateFreeTrial(ctx, "user1")
	require.NoError(t, err)

	// upgrading off the trial keeps the flag set
	res, err := s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)
	require.True(t, res.Success)

	sub, err := s.GetSubscription(ctx, "user1")
	require.NoError(t, err)
	assert.True(t, sub.HasUsedFreeTrial)

	// a user who never used the trial keeps the flag clear across purchases
	_, err = s.CreateSubscription(ctx, "user2", types.PlanTypeSimple, types.BillingCycleMonthly, "pay_2")
	require.NoError(t, err)
	sub2, err := s.GetSubscription(ctx, "user2")
	require.NoError(t, err)
	assert.False(t, sub2.HasUsedFreeTrial)
}

func TestCreateSubscription_SingleRowPerUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	_, err := s.CreateSubscription(ctx, "user1", types.PlanTypeSimple, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)
	first, err := s.GetSubscription(ctx, "user1")
	require.NoError(t, err)

	_, err = s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleYearly, "pay_2")
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.db.Model(&models.Subscription{}).Where("user_id = ?", "user1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	second, err := s.GetSubscription(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCheckSubscriptionStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	// no record
	active, err := s.CheckSubscriptionStatus(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, active)

	_, err = s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)

	active, err = s.CheckSubscriptionStatus(ctx, "user1")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestCheckSubscriptionStatus_LazyExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	_, err := s.CreateSubscription(ctx, "user1", types.PlanTypePremium, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)

	s.now = func() time.Time { return now.AddDate(0, 2, 0) }

	active, err := s.CheckSubscriptionStatus(ctx, "user1")
	require.NoError(t, err)
	assert.False(t, active)

	// the expiry was persisted, not just computed
	sub, err := s.GetSubscription(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, types.SubscriptionStatusExpired, sub.Status)
	assert.False(t, sub.DownloadEnabled)
	// and the trial flag survived the transition
	assert.False(t, sub.HasUsedFreeTrial)
}

func TestExpireOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	ctx := context.Background()

	_, err := s.CreateSubscription(ctx, "overdue", types.PlanTypeSimple, types.BillingCycleMonthly, "pay_1")
	require.NoError(t, err)
	_, err = s.CreateSubscription(ctx, "current", types.PlanTypeSimple, types.BillingCycleYearly, "pay_2")
	require.NoError(t, err)

	s.now = func() time.Time { return now.AddDate(0, 2, 0) }

	n, err := s.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sub, err := s.GetSubscription(ctx, "overdue")
	require.NoError(t, err)
	assert.Equal(t, types.SubscriptionStatusExpired, sub.Status)
	assert.False(t, sub.DownloadEnabled)

	keep, err := s.GetSubscription(ctx, "current")
	require.NoError(t, err)
	assert.Equal(t, types.SubscriptionStatusActive, keep.Status)

	// second sweep is a no-op
	n, err = s.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
