package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/services"
)

func TestPaymentNotification(t *testing.T) {
	app := setupTestApp(t)
	a := app.seedProduct(t, "Nasi Kuning", 15000, nil)

	payload := cartPayload(item(a.ID, 2))
	payload["payment_method"] = "online"
	w := app.do(t, http.MethodPost, "/orders", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &created)
	require.Equal(t, models.OrderStatusWaitingPayment, created.Order.Status)

	notification := map[string]interface{}{
		"order_id":           created.Order.OrderCode,
		"transaction_id":     "TRX-1",
		"transaction_status": "settlement",
		"payment_type":       "qris",
		"status_code":        "200",
		"gross_amount":       "30000.00",
	}

	notification["signature_key"] = "forged"
	w = app.do(t, http.MethodPost, "/payments/notification", "", notification)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	notification["signature_key"] = services.SignNotification(created.Order.OrderCode, "200", "30000.00", testServerKey)
	w = app.do(t, http.MethodPost, "/payments/notification", "", notification)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, app.db.Where("order_code = ?", created.Order.OrderCode).First(&order).Error)
	assert.Equal(t, models.OrderStatusInQueue, order.Status)
	assert.Equal(t, models.PaymentStatusSettlement, order.PaymentStatus)
	require.NotNil(t, order.PaymentPayload)
	assert.Contains(t, string(*order.PaymentPayload), "TRX-1")
}
