package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ordermenu/models"
)

const testServerKey = "SB-Mid-server-test"

func onlineOrder(t *testing.T, f *fixture) *models.Order {
	t.Helper()
	p := f.product(t, "Nasi Kuning", 15000, nil)
	in := cart(line(p.ID, 2))
	in.PaymentMethod = PaymentMethodOnline
	order, err := f.orders.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	return order
}

func notification(order *models.Order, status models.PaymentStatus, trx string) PaymentNotification {
	n := PaymentNotification{
		OrderID:           order.OrderCode,
		TransactionID:     trx,
		TransactionStatus: status,
		PaymentType:       "qris",
		StatusCode:        "200",
		GrossAmount:       "30000.00",
		Raw:               []byte(`{"transaction_status":"` + string(status) + `"}`),
	}
	n.SignatureKey = SignNotification(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

func TestApplyPaymentNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("Settlement queues the order", func(t *testing.T) {
		f := newFixture(t, WithPaymentServerKey(testServerKey))
		order := onlineOrder(t, f)

		got, err := f.payments.ApplyPaymentNotification(ctx, notification(order, models.PaymentStatusSettlement, "TRX-100"))
		require.NoError(t, err)

		assert.Equal(t, models.OrderStatusInQueue, got.Status)
		assert.Equal(t, models.PaymentStatusSettlement, got.PaymentStatus)
		require.NotNil(t, got.TransactionID)
		assert.Equal(t, "TRX-100", *got.TransactionID)
		require.NotNil(t, got.PaymentMethod)
		assert.Equal(t, "qris", *got.PaymentMethod)
		require.NotNil(t, got.PaymentPayload)
		assert.Contains(t, string(*got.PaymentPayload), "settlement")
	})

	t.Run("Expire fails the payment", func(t *testing.T) {
		f := newFixture(t, WithPaymentServerKey(testServerKey))
		order := onlineOrder(t, f)

		got, err := f.payments.ApplyPaymentNotification(ctx, notification(order, models.PaymentStatusExpire, "TRX-101"))
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaymentFailed, got.Status)
		assert.Equal(t, models.PaymentStatusExpire, got.PaymentStatus)
	})

	t.Run("Pending leaves the order waiting", func(t *testing.T) {
		f := newFixture(t, WithPaymentServerKey(testServerKey))
		order := onlineOrder(t, f)

		got, err := f.payments.ApplyPaymentNotification(ctx, notification(order, models.PaymentStatusPending, "TRX-102"))
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusWaitingPayment, got.Status)
	})

	t.Run("Bad signature", func(t *testing.T) {
		f := newFixture(t, WithPaymentServerKey(testServerKey))
		order := onlineOrder(t, f)

		n := notification(order, models.PaymentStatusSettlement, "TRX-103")
		n.GrossAmount = "1.00"
		_, err := f.payments.ApplyPaymentNotification(ctx, n)
		assert.ErrorIs(t, err, ErrInvalidSignature)

		stored, err := f.orders.GetOrderByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusWaitingPayment, stored.Status)
	})

	t.Run("Transaction id taken by another order", func(t *testing.T) {
		f := newFixture(t, WithPaymentServerKey(testServerKey))
		first := onlineOrder(t, f)
		second := onlineOrder(t, f)

		_, err := f.payments.ApplyPaymentNotification(ctx, notification(first, models.PaymentStatusSettlement, "TRX-104"))
		require.NoError(t, err)
		_, err = f.payments.ApplyPaymentNotification(ctx, notification(second, models.PaymentStatusSettlement, "TRX-104"))
		assert.ErrorIs(t, err, ErrDuplicateTransaction)
	})

	t.Run("Unknown order", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.payments.ApplyPaymentNotification(ctx, PaymentNotification{
			OrderID:           "OM-2099010100001",
			TransactionID:     "TRX-105",
			TransactionStatus: models.PaymentStatusSettlement,
		})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestExpireStalePayments(t *testing.T) {
	f := newFixture(t)
	stale := onlineOrder(t, f)
	f.now = f.now.Add(50 * time.Minute)
	fresh := onlineOrder(t, f)
	f.now = f.now.Add(20 * time.Minute)

	n, err := f.payments.ExpireStalePayments(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.orders.GetOrderByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaymentFailed, got.Status)
	assert.Equal(t, models.PaymentStatusExpire, got.PaymentStatus)

	got, err = f.orders.GetOrderByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusWaitingPayment, got.Status)
}

func TestRenderReceiptPDF(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Nasi Padang", 1500000, nil)
	order := f.createOrder(t, line(p.ID, 2))

	var buf bytes.Buffer
	err := RenderReceiptPDF(&buf, ReceiptHeader{Name: "OrderMenu", Phone: "021-555"}, order, time.UTC)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
