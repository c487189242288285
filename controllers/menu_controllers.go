package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
)

// MenuController exposes the read-only catalog customers order from.
type MenuController struct {
	orders *services.OrderService
}

func NewMenuController(orders *services.OrderService) *MenuController {
	return &MenuController{orders: orders}
}

// ListProducts returns active products, optionally for one category.
func (mc *MenuController) ListProducts(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
			return
		}
		v := uint(id)
		categoryID = &v
	}

	products, err := mc.orders.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Products", products)
}

func (mc *MenuController) ListCategories(c *gin.Context) {
	categories, err := mc.orders.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories", categories)
}
