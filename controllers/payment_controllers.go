package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
)

const maxNotificationBytes = 64 << 10

// PaymentController receives payment provider callbacks.
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// Notification records the provider status carried by the callback. The raw
// body is kept on the order as the payment payload.
func (pc *PaymentController) Notification(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBytes))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var n services.PaymentNotification
	if err := json.Unmarshal(raw, &n); err != nil {
		respondBindError(c, err)
		return
	}
	n.Raw = raw

	order, err := pc.payments.ApplyPaymentNotification(c.Request.Context(), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment notification processed", gin.H{
		"order_code":     order.OrderCode,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
}
