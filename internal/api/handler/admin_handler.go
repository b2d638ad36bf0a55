package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mipipizza/order-system/internal/api/metrics"
	"github.com/mipipizza/order-system/internal/core/domain"
	"github.com/mipipizza/order-system/internal/core/ports"
)

// AdminHandler handles the staff dashboard routes.
type AdminHandler struct {
	orders ports.OrderService
	sales  ports.SalesService
}

func NewAdminHandler(orders ports.OrderService, sales ports.SalesService) *AdminHandler {
	return &AdminHandler{orders: orders, sales: sales}
}

// ListOrders handles GET /admin/orders — every active order.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.orders.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

// UpdateStatus handles PUT /admin/orders/:id.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(order.Status)).Inc()

	return c.JSON(http.StatusOK, map[string]any{
		"message": "order status updated",
		"order":   order,
	})
}

// MarkAsPaid handles PUT /admin/orders/:id/markAsPaid — archives the order
// into the completed collection.
//
// @Summary      Mark an order as paid
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  errorResponse
// @Router       /admin/orders/{id}/markAsPaid [put]
func (h *AdminHandler) MarkAsPaid(c echo.Context) error {
	archived, err := h.orders.MarkPaid(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.OrdersArchivedTotal.WithLabelValues("completed").Inc()

	return c.JSON(http.StatusOK, map[string]any{
		"message": "order marked as paid",
		"order":   archived,
	})
}

// Cancel handles PUT /admin/orders/:id/cancel — archives the order into the
// canceled collection stamped by admin.
func (h *AdminHandler) Cancel(c echo.Context) error {
	archived, err := h.orders.Cancel(c.Request().Context(), c.Param("id"), domain.CanceledByAdmin)
	if err != nil {
		return err
	}

	metrics.OrdersArchivedTotal.WithLabelValues("canceled").Inc()

	return c.JSON(http.StatusOK, map[string]any{
		"message": "order canceled",
		"order":   archived,
	})
}

// Sales handles GET /admin/sales.
func (h *AdminHandler) Sales(c echo.Context) error {
	report, err := h.sales.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// CanceledOrders handles GET /admin/canceled-orders.
func (h *AdminHandler) CanceledOrders(c echo.Context) error {
	orders, err := h.sales.CanceledOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}
