package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
)

var errorStatus = []struct {
	err  error
	code int
}{
	{services.ErrOrderNotFound, http.StatusNotFound},
	{services.ErrOrderItemNotFound, http.StatusNotFound},
	{services.ErrNotInKitchenFlow, http.StatusForbidden},
	{services.ErrInvalidTransition, http.StatusForbidden},
	{services.ErrOrderLocked, http.StatusForbidden},
	{services.ErrItemsNotDone, http.StatusPreconditionFailed},
	{services.ErrProductUnavailable, http.StatusUnprocessableEntity},
	{services.ErrInsufficientStock, http.StatusUnprocessableEntity},
	{services.ErrDuplicateTransaction, http.StatusConflict},
	{services.ErrOrderCodeAllocation, http.StatusConflict},
	{services.ErrInvalidSignature, http.StatusUnauthorized},
}

// respondServiceError maps service errors onto HTTP responses. Anything not
// recognised is logged and reported as a generic failure.
func respondServiceError(c *gin.Context, err error) {
	if ve, ok := services.IsValidationError(err); ok {
		utils.RespondValidationError(c, http.StatusUnprocessableEntity, "The given data was invalid.", ve.Fields)
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			utils.RespondError(c, m.code, err)
			return
		}
	}

	utils.Error(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"error":  err,
	}).Error("Unhandled service error")
	utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
}

// respondBindError reports a request body that could not be decoded.
func respondBindError(c *gin.Context, err error) {
	utils.RespondValidationError(c, http.StatusUnprocessableEntity, "Malformed request body.", map[string]string{
		"body": err.Error(),
	})
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("resource not found"))
		return 0, false
	}
	return uint(id), true
}
