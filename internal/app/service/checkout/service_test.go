package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wigglebyte/console/internal/app/service/history"
	"github.com/wigglebyte/console/internal/app/service/subscription"
	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/internal/platform/razorpay"
	"github.com/wigglebyte/console/pkg/types"
)

type stubGateway struct {
	createOrder  *razorpay.Order
	createErr    error
	validSig     string
	createCalls  int
	verifyCalled int
}

func (s *stubGateway) CreateOrder(ctx context.Context, req *razorpay.CreateOrderRequest) (*razorpay.Order, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createOrder, nil
}

func (s *stubGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	s.verifyCalled++
	return signature == s.validSig
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Subscription{}, &models.PaymentHistory{},
		&models.PaymentOrder{}, &models.User{},
	))
	return db
}

func newTestService(t *testing.T, gw gatewayAPI) (*Service, *gorm.DB) {
	db := setupTestDB(t)
	log := zap.NewNop().Sugar()
	svc := &Service{
		db:      db,
		gateway: gw,
		subSvc:  subscription.NewService(db, log),
		histSvc: history.NewService(db, log),
		log:     log,
		sleep:   func(time.Duration) {},
	}
	return svc, db
}

func createTestOrder(t *testing.T, svc *Service) *razorpay.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		AmountMajor:  1711,
		Currency:     "INR",
		PlanType:     types.PlanTypePremium,
		BillingCycle: types.BillingCycleMonthly,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder_PersistsBinding(t *testing.T) {
	gw := &stubGateway{createOrder: &razorpay.Order{
		OrderID: "order_1", AmountMinor: 171100, Currency: "INR", ReceiptID: "receipt_1",
	}}
	svc, db := newTestService(t, gw)

	order := createTestOrder(t, svc)
	assert.Equal(t, "order_1", order.OrderID)

	var stored models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&stored).Error)
	assert.Equal(t, int64(171100), stored.AmountMinor)
	assert.Equal(t, types.PlanTypePremium, stored.PlanType)
	assert.Equal(t, types.BillingCycleMonthly, stored.BillingCycle)
	assert.Equal(t, types.OrderStatusCreated, stored.Status)
}

func TestCreateOrder_GatewayErrorPassedThrough(t *testing.T) {
	gwErr := &razorpay.Error{StatusCode: 400, Message: "Invalid payment request"}
	svc, db := newTestService(t, &stubGateway{createErr: gwErr})

	_, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		AmountMajor: 10, PlanType: types.PlanTypeSimple, BillingCycle: types.BillingCycleMonthly,
	})
	var got *razorpay.Error
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 400, got.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.PaymentOrder{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestComplete_HappyPath(t *testing.T) {
	gw := &stubGateway{
		createOrder: &razorpay.Order{OrderID: "order_1", AmountMinor: 171100, Currency: "INR", ReceiptID: "r1"},
		validSig:    "good_sig",
	}
	svc, db := newTestService(t, gw)
	createTestOrder(t, svc)

	res, err := svc.Complete(context.Background(), &CompleteRequest{
		UserID: "user1", OrderID: "order_1", PaymentID: "pay_1", Signature: "good_sig",
	})
	require.NoError(t, err)
	assert.True(t, res.Result.Success)
	require.NotNil(t, res.Payment)
	assert.Equal(t, 1711.0, res.Payment.Amount)
	assert.Equal(t, "razorpay", res.Payment.PaymentMethod)
	assert.Equal(t, "pay_1", res.Payment.TransactionID)
	assert.Equal(t, "order_1", res.Payment.Extra.Data().OrderID)

	// order marked paid and bound to the user
	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&order).Error)
	assert.Equal(t, types.OrderStatusPaid, order.Status)
	assert.Equal(t, "user1", order.UserID)
	assert.Equal(t, "pay_1", order.PaymentID)

	// subscription activated from the stored order's plan, not the request
	var sub models.Subscription
	require.NoError(t, db.Where("user_id = ?", "user1").First(&sub).Error)
	assert.Equal(t, types.PlanTypePremium, sub.PlanType)
	assert.Equal(t, types.SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.DownloadEnabled)
}

func TestComplete_InvalidSignature(t *testing.T) {
	gw := &stubGateway{
		createOrder: &razorpay.Order{OrderID: "order_1", AmountMinor: 100000, Currency: "INR"},
		validSig:    "good_sig",
	}
	svc, db := newTestService(t, gw)
	createTestOrder(t, svc)

	res, err := svc.Complete(context.Background(), &CompleteRequest{
		UserID: "user1", OrderID: "order_1", PaymentID: "pay_1", Signature: "forged",
	})
	require.NoError(t, err)
	assert.False(t, res.Result.Success)
	assert.Equal(t, "Invalid payment signature", res.Result.Message)

	// nothing was written
	var count int64
	require.NoError(t, db.Model(&models.PaymentHistory{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&order).Error)
	assert.Equal(t, types.OrderStatusCreated, order.Status)
}

func TestComplete_UnknownOrder(t *testing.T) {
	svc, _ := newTestService(t, &stubGateway{validSig: "good_sig"})

	_, err := svc.Complete(context.Background(), &CompleteRequest{
		UserID: "user1", OrderID: "order_missing", PaymentID: "pay_1", Signature: "good_sig",
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestComplete_ReplayIsIdempotent(t *testing.T) {
	gw := &stubGateway{
		createOrder: &razorpay.Order{OrderID: "order_1", AmountMinor: 100000, Currency: "INR"},
		validSig:    "good_sig",
	}
	svc, db := newTestService(t, gw)
	createTestOrder(t, svc)

	req := &CompleteRequest{UserID: "user1", OrderID: "order_1", PaymentID: "pay_1", Signature: "good_sig"}
	_, err := svc.Complete(context.Background(), req)
	require.NoError(t, err)

	res, err := svc.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Result.Success)

	// the ledger was not appended twice
	var count int64
	require.NoError(t, db.Model(&models.PaymentHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestComplete_AfterWebhookStillWritesLedgers(t *testing.T) {
	gw := &stubGateway{
		createOrder: &razorpay.Order{OrderID: "order_1", AmountMinor: 171100, Currency: "INR", ReceiptID: "r1"},
		validSig:    "good_sig",
	}
	svc, db := newTestService(t, gw)
	createTestOrder(t, svc)

	// the gateway notification often lands before the client callback
	require.NoError(t, svc.MarkOrderPaidByWebhook(context.Background(), "order_1", "pay_1"))

	res, err := svc.Complete(context.Background(), &CompleteRequest{
		UserID: "user1", OrderID: "order_1", PaymentID: "pay_1", Signature: "good_sig",
	})
	require.NoError(t, err)
	assert.True(t, res.Result.Success)
	require.NotNil(t, res.Payment)

	var count int64
	require.NoError(t, db.Model(&models.PaymentHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var sub models.Subscription
	require.NoError(t, db.Where("user_id = ?", "user1").First(&sub).Error)
	assert.Equal(t, types.PlanTypePremium, sub.PlanType)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&order).Error)
	assert.Equal(t, "user1", order.UserID)
}

func TestComplete_RetryAfterPartialFailureWritesLedgers(t *testing.T) {
	gw := &stubGateway{
		createOrder: &razorpay.Order{OrderID: "order_1", AmountMinor: 100000, Currency: "INR"},
		validSig:    "good_sig",
	}
	svc, db := newTestService(t, gw)
	createTestOrder(t, svc)

	// a prior attempt marked the order paid but died before the ledger writes
	require.NoError(t, db.Model(&models.PaymentOrder{}).
		Where("order_id = ?", "order_1").
		Updates(map[string]interface{}{"status": types.OrderStatusPaid, "payment_id": "pay_1"}).Error)

	res, err := svc.Complete(context.Background(), &CompleteRequest{
		UserID: "user1", OrderID: "order_1", PaymentID: "pay_1", Signature: "good_sig",
	})
	require.NoError(t, err)
	assert.True(t, res.Result.Success)

	var count int64
	require.NoError(t, db.Model(&models.PaymentHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestComplete_Validation(t *testing.T) {
	svc, _ := newTestService(t, &stubGateway{})
	for _, req := range []*CompleteRequest{
		nil,
		{OrderID: "o", PaymentID: "p"},
		{UserID: "u", PaymentID: "p"},
		{UserID: "u", OrderID: "o"},
	} {
		_, err := svc.Complete(context.Background(), req)
		assert.Error(t, err)
	}
}

func TestWithRetry_RetriesThenFails(t *testing.T) {
	svc, _ := newTestService(t, &stubGateway{})

	var calls, sleeps int
	svc.sleep = func(time.Duration) { sleeps++ }
	err := svc.withRetry(context.Background(), "op", func() error {
		calls++
		return errors.New("transient")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, sleeps)

	// success on second attempt stops early
	calls = 0
	err = svc.withRetry(context.Background(), "op", func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMarkOrderPaidByWebhook(t *testing.T) {
	gw := &stubGateway{createOrder: &razorpay.Order{OrderID: "order_1", AmountMinor: 1000, Currency: "INR"}}
	svc, db := newTestService(t, gw)
	createTestOrder(t, svc)

	require.NoError(t, svc.MarkOrderPaidByWebhook(context.Background(), "order_1", "pay_1"))

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&order).Error)
	assert.Equal(t, types.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_1", order.PaymentID)

	// unknown order is a silent no-op
	require.NoError(t, svc.MarkOrderPaidByWebhook(context.Background(), "order_other", "pay_2"))
}
