package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/services"
)

type ReceiptController struct {
	orders   *services.OrderService
	header   services.ReceiptHeader
	location *time.Location
}

func NewReceiptController(orders *services.OrderService, header services.ReceiptHeader, loc *time.Location) *ReceiptController {
	return &ReceiptController{orders: orders, header: header, location: loc}
}

// GenerateReceipt streams the order receipt as a PDF.
func (rc *ReceiptController) GenerateReceipt(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := rc.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderReceiptPDF(&buf, rc.header, order, rc.location); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="receipt-%s.pdf"`, order.OrderCode))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
