package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ordermenu/models"
)

func adminPayload(order models.Order, status models.OrderStatus) map[string]interface{} {
	return map[string]interface{}{
		"customer_name":  order.CustomerName,
		"customer_email": order.CustomerEmail,
		"customer_phone": order.CustomerPhone,
		"table_number":   order.TableNumber,
		"status":         status,
		"payment_status": order.PaymentStatus,
		"payment_method": order.PaymentMethod,
	}
}

func orderPath(id uint) string {
	return "/admin/orders/" + strconv.Itoa(int(id))
}

func TestAdminListAndGet(t *testing.T) {
	app := setupTestApp(t)
	cashier := app.tokenFor(t, models.RoleCashier)
	a := app.seedProduct(t, "Pecel", 10000, nil)
	order := app.placeOrder(t, item(a.ID, 1))
	app.placeOrder(t, item(a.ID, 2))

	w := app.do(t, http.MethodGet, "/admin/orders?per_page=25&status=in_queue", cashier, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list struct {
		Orders struct {
			Data    []models.Order `json:"data"`
			Total   int64          `json:"total"`
			PerPage int            `json:"per_page"`
		} `json:"orders"`
	}
	decode(t, w, &list)
	assert.Equal(t, int64(2), list.Orders.Total)
	assert.Equal(t, 25, list.Orders.PerPage)
	require.Len(t, list.Orders.Data, 2)

	w = app.do(t, http.MethodGet, orderPath(order.ID), cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/admin/orders/abc", cashier, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/admin/orders", app.tokenFor(t, models.RoleChef), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminUpdateOrder(t *testing.T) {
	app := setupTestApp(t)
	cashier := app.tokenFor(t, models.RoleCashier)
	a := app.seedProduct(t, "Lontong", 9000, nil)
	first := app.placeOrder(t, item(a.ID, 1))
	second := app.placeOrder(t, item(a.ID, 1))

	payload := adminPayload(first, models.OrderStatusCompleted)
	payload["transaction_id"] = "TRX-9"
	w := app.do(t, http.MethodPut, orderPath(first.ID), cashier, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Order
	decode(t, w, &updated)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	payload = adminPayload(second, second.Status)
	payload["transaction_id"] = "TRX-9"
	w = app.do(t, http.MethodPut, orderPath(second.ID), cashier, payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	payload = adminPayload(second, models.OrderStatusCancelled)
	payload["items"] = []map[string]interface{}{{"id": second.Items[0].ID, "is_done": true}}
	w = app.do(t, http.MethodPut, orderPath(second.ID), cashier, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	payload = adminPayload(second, "bogus")
	w = app.do(t, http.MethodPut, orderPath(second.ID), cashier, payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w, nil).Errors, "status")
}

func TestAdminDeleteOrder(t *testing.T) {
	app := setupTestApp(t)
	admin := app.tokenFor(t, models.RoleAdmin)
	a := app.seedProduct(t, "Tahu", 5000, nil)
	order := app.placeOrder(t, item(a.ID, 1))
	ready := app.placeOrder(t, item(a.ID, 1))
	app.setStatus(t, ready.ID, models.OrderStatusReadyToServe)

	w := app.do(t, http.MethodDelete, orderPath(ready.ID), admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodDelete, orderPath(order.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, orderPath(order.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminReceipt(t *testing.T) {
	app := setupTestApp(t)
	owner := app.tokenFor(t, models.RoleOwner)
	a := app.seedProduct(t, "Rendang", 35000, nil)
	order := app.placeOrder(t, item(a.ID, 2))

	w := app.do(t, http.MethodGet, orderPath(order.ID)+"/receipt", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), order.OrderCode)
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}
