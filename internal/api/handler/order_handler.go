package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mipipizza/order-system/internal/api/metrics"
	"github.com/mipipizza/order-system/internal/core/domain"
	"github.com/mipipizza/order-system/internal/core/ports"
)

// OrderHandler handles the customer-facing order routes.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders.
//
// @Summary      Place a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.CreateOrderInput{
		CustomerName:  req.CustomerName,
		Address:       req.Address,
		References:    req.References,
		Phone:         req.Phone,
		PaymentMethod: req.PaymentMethod,
		UserID:        userID,
	}
	for _, item := range req.CartItems {
		input.CartItems = append(input.CartItems, ports.CartItemInput{
			Name:        item.Name,
			Size:        item.Size,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Ingredients: item.Ingredients,
			Sauce:       item.Sauce,
		})
	}

	order, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.WithLabelValues(order.PaymentMethod).Inc()

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "order created",
		"order":   order,
	})
}

// List handles GET /orders — the requester's own orders.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

// ActiveOrder handles GET /orders/active-order. Having no active order is a
// normal 200, not an error.
func (h *OrderHandler) ActiveOrder(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	res, err := h.service.ActiveOrderFor(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	if !res.HasActiveOrder {
		return c.JSON(http.StatusOK, map[string]any{"hasActiveOrder": false})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"hasActiveOrder": true,
		"order":          res.Order,
	})
}

// UpdateStatus handles PUT /orders/:id.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(order.Status)).Inc()

	return c.JSON(http.StatusOK, map[string]any{
		"message": "order status updated",
		"order":   order,
	})
}

// Delete handles DELETE /orders/:id — owner-only; the order is archived as
// canceled by the customer rather than hard-deleted.
func (h *OrderHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if _, err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	metrics.OrdersArchivedTotal.WithLabelValues("canceled").Inc()

	return c.JSON(http.StatusOK, map[string]string{"message": "order deleted"})
}

// Cancel handles PUT /orders/:id/cancel — owner-only in-place cancellation.
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	order, err := h.service.CancelOwn(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(domain.StatusCanceled)).Inc()

	return c.JSON(http.StatusOK, map[string]any{
		"message": "order canceled",
		"order":   order,
	})
}
