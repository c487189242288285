package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
)

// AdminController is the cashier's order management.
type AdminController struct {
	orders *services.OrderService
}

func NewAdminController(orders *services.OrderService) *AdminController {
	return &AdminController{orders: orders}
}

func (ac *AdminController) ListOrders(c *gin.Context) {
	var filter services.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := ac.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders", gin.H{
		"orders":        page,
		"filters":       filter,
		"statuses":      statusOptions(),
		"payment_types": []string{services.PaymentMethodCash, services.PaymentMethodOnline},
	})
}

func (ac *AdminController) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := ac.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (ac *AdminController) UpdateOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input services.AdminOrderUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ac.orders.UpdateOrder(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated successfully!", order)
}

func (ac *AdminController) DeleteOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ac.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled successfully!", nil)
}

func statusOptions() map[models.OrderStatus]string {
	opts := make(map[models.OrderStatus]string)
	for _, s := range models.OrderStatuses() {
		opts[s] = s.Label()
	}
	return opts
}
