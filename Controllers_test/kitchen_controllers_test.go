package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ordermenu/models"
)

func TestKitchenRequiresChef(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/kitchen/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/kitchen/orders", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/kitchen/orders", app.tokenFor(t, models.RoleCashier), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/api/kitchen/orders", app.tokenFor(t, models.RoleChef), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestKitchenFlow(t *testing.T) {
	app := setupTestApp(t)
	chef := app.tokenFor(t, models.RoleChef)
	a := app.seedProduct(t, "Nasi Uduk", 12000, nil)
	b := app.seedProduct(t, "Telur", 4000, nil)
	order := app.placeOrder(t, item(a.ID, 1), item(b.ID, 1))

	statusPath := "/api/kitchen/orders/" + strconv.Itoa(int(order.ID)) + "/status"
	togglePath := func(id uint) string {
		return "/api/kitchen/order-items/" + strconv.Itoa(int(id)) + "/toggle-done"
	}

	w := app.do(t, http.MethodPatch, statusPath, chef, map[string]string{"status": "ready_to_serve"})
	assert.Equal(t, http.StatusForbidden, w.Code, "in_queue cannot jump to ready")

	w = app.do(t, http.MethodPatch, statusPath, chef, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPatch, statusPath, chef, map[string]string{"status": "ready_to_serve"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = app.do(t, http.MethodPatch, togglePath(order.Items[0].ID), chef, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	decode(t, w, &got)
	assert.Equal(t, models.OrderStatusInProgress, got.Status)

	w = app.do(t, http.MethodPatch, togglePath(order.Items[1].ID), chef, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.Equal(t, models.OrderStatusReadyToServe, got.Status)

	w = app.do(t, http.MethodPatch, statusPath, chef, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPatch, statusPath, chef, map[string]string{"status": "served"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestToggleOutsideKitchenFlow(t *testing.T) {
	app := setupTestApp(t)
	chef := app.tokenFor(t, models.RoleChef)
	a := app.seedProduct(t, "Bubur", 9000, nil)
	order := app.placeOrder(t, item(a.ID, 1))
	app.setStatus(t, order.ID, models.OrderStatusCompleted)

	w := app.do(t, http.MethodPatch, "/api/kitchen/order-items/"+strconv.Itoa(int(order.Items[0].ID))+"/toggle-done", chef, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPatch, "/api/kitchen/order-items/9999/toggle-done", chef, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKitchenBoard(t *testing.T) {
	app := setupTestApp(t)
	chef := app.tokenFor(t, models.RoleChef)
	a := app.seedProduct(t, "Nasi Campur", 20000, nil)

	first := app.placeOrder(t, item(a.ID, 1))
	app.now = app.now.Add(time.Minute)
	second := app.placeOrder(t, item(a.ID, 1))
	app.now = app.now.Add(time.Minute)
	cooking := app.placeOrder(t, item(a.ID, 1))
	app.setStatus(t, cooking.ID, models.OrderStatusInProgress)

	w := app.do(t, http.MethodGet, "/api/kitchen/orders", chef, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var board struct {
		InQueue []struct {
			OrderCode         string `json:"order_code"`
			TimeSinceCreation string `json:"time_since_creation"`
			HumanCreatedAt    string `json:"human_created_at"`
		} `json:"in_queue"`
		InProgress   []models.Order `json:"in_progress"`
		ReadyToServe []models.Order `json:"ready_to_serve"`
	}
	decode(t, w, &board)

	require.Len(t, board.InQueue, 2)
	assert.Equal(t, first.OrderCode, board.InQueue[0].OrderCode)
	assert.Equal(t, second.OrderCode, board.InQueue[1].OrderCode)
	assert.Equal(t, "09:00", board.InQueue[0].HumanCreatedAt)
	assert.NotEmpty(t, board.InQueue[0].TimeSinceCreation)
	require.Len(t, board.InProgress, 1)
	assert.Equal(t, cooking.OrderCode, board.InProgress[0].OrderCode)
	assert.NotNil(t, board.ReadyToServe)
	assert.Empty(t, board.ReadyToServe)
}
