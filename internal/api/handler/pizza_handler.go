package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mipipizza/order-system/internal/core/domain"
	"github.com/mipipizza/order-system/internal/core/ports"
)

type pizzaRequest struct {
	Name        string   `json:"name" validate:"required"`
	Ingredients []string `json:"ingredients"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Available   *bool    `json:"available"`
}

// PizzaHandler serves the pizza catalog. Reads are public, mutations are
// admin-only (enforced by the route group).
type PizzaHandler struct {
	repo ports.PizzaRepository
}

func NewPizzaHandler(repo ports.PizzaRepository) *PizzaHandler {
	return &PizzaHandler{repo: repo}
}

// List handles GET /pizzas.
func (h *PizzaHandler) List(c echo.Context) error {
	pizzas, err := h.repo.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"pizzas": pizzas})
}

// Create handles POST /pizzas.
func (h *PizzaHandler) Create(c echo.Context) error {
	var req pizzaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pizza := &domain.Pizza{
		Name:        req.Name,
		Ingredients: req.Ingredients,
		Price:       req.Price,
		Available:   true,
	}
	if req.Available != nil {
		pizza.Available = *req.Available
	}

	if err := h.repo.Create(c.Request().Context(), pizza); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "pizza created",
		"pizza":   pizza,
	})
}

// Update handles PUT /pizzas/:id.
func (h *PizzaHandler) Update(c echo.Context) error {
	var req pizzaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pizza := &domain.Pizza{
		ID:          c.Param("id"),
		Name:        req.Name,
		Ingredients: req.Ingredients,
		Price:       req.Price,
		Available:   true,
	}
	if req.Available != nil {
		pizza.Available = *req.Available
	}

	updated, err := h.repo.Update(c.Request().Context(), pizza)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "pizza updated",
		"pizza":   updated,
	})
}

// Delete handles DELETE /pizzas/:id.
func (h *PizzaHandler) Delete(c echo.Context) error {
	if err := h.repo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "pizza deleted"})
}
