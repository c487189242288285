package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
)

// OrderController serves the customer facing order endpoints.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := oc.orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed successfully!", gin.H{
		"order":        order,
		"redirect_url": "/orders/" + order.OrderCode,
	})
}

func (oc *OrderController) GetOrderByCode(c *gin.Context) {
	order, err := oc.orders.GetOrderByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrderStatus is polled by the order tracking page.
func (oc *OrderController) GetOrderStatus(c *gin.Context) {
	order, err := oc.orders.GetOrderByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status", gin.H{
		"order":                order,
		"overall_status_label": order.Status.Label(),
		"payment_status_label": order.PaymentStatus.Label(),
	})
}
