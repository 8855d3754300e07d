package api

import (
	"net/http"

	"github.com/digifood/restaurant-backend/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler { return &WSHandler{hub: hub} }

// subscribe upgrades and holds the connection on topic until the client leaves.
// Inbound messages are ignored.
func (h *WSHandler) subscribe(c *gin.Context, topic string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	unregister := h.hub.Register(topic, conn)
	defer unregister()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// MenuSocket streams menu and category changes to anyone.
func (h *WSHandler) MenuSocket() gin.HandlerFunc {
	return func(c *gin.Context) { h.subscribe(c, realtime.TopicMenu) }
}

// AdminSocket streams every change; auth and role middleware run first.
func (h *WSHandler) AdminSocket() gin.HandlerFunc {
	return func(c *gin.Context) { h.subscribe(c, realtime.TopicAdmin) }
}

// OrdersSocket streams changes to the caller's own orders.
func (h *WSHandler) OrdersSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		h.subscribe(c, realtime.UserTopic(uid.String()))
	}
}
