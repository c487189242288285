package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
)

type KitchenController struct {
	kitchen *services.KitchenService
}

func NewKitchenController(kitchen *services.KitchenService) *KitchenController {
	return &KitchenController{kitchen: kitchen}
}

// Board returns active orders grouped into in_queue, in_progress and
// ready_to_serve.
func (kc *KitchenController) Board(c *gin.Context) {
	board, err := kc.kitchen.Board(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen orders", board)
}

func (kc *KitchenController) ToggleItemDone(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := kc.kitchen.ToggleItemDone(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item status updated", order)
}

func (kc *KitchenController) SetOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := kc.kitchen.SetOrderStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated to "+order.Status.Label(), order)
}
