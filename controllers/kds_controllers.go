package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/kds"
	"github.com/yeremiapane/ordermenu/middlewares"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/utils"
)

var kdsRoles = map[models.Role]bool{
	models.RoleChef:    true,
	models.RoleCashier: true,
	models.RoleAdmin:   true,
	models.RoleOwner:   true,
}

type KDSController struct {
	hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts websocket handshakes from allowedOrigin, or from
// any origin when it is "*".
func NewKDSController(hub *kds.Hub, allowedOrigin string) *KDSController {
	return &KDSController{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Connect upgrades the request and keeps the display registered until it
// disconnects.
func (kc *KDSController) Connect(c *gin.Context) {
	role := models.Role(c.GetString(middlewares.ContextRole))
	if !kdsRoles[role] {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Error(logrus.Fields{"error": err}).Error("Websocket upgrade failed")
		return
	}

	kc.hub.Register(ws, string(role))
	defer kc.hub.Unregister(ws)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
