package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/utils"
)

// ReceiptLoggerMiddleware records who printed a receipt for which order.
func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := logrus.Fields{
			"order_id": c.Param("id"),
			"user_id":  c.GetUint(ContextUserID),
		}
		if c.Writer.Status() == http.StatusOK {
			utils.Info(fields).Info("Receipt generated")
		} else {
			utils.Info(fields).Warn("Failed to generate receipt")
		}
	}
}
