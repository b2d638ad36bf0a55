package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mipipizza/order-system/internal/notify"
)

// WSHandler upgrades GET /ws connections and hands them to the hub.
type WSHandler struct {
	hub *notify.Hub
}

func NewWSHandler(hub *notify.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) Subscribe(c echo.Context) error {
	return h.hub.ServeWS(c.Response(), c.Request())
}
