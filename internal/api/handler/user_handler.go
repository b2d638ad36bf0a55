package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mipipizza/order-system/internal/core/ports"
)

type cartRequest struct {
	Cart map[string]int `json:"cart" validate:"required"`
}

type updateUserRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin user"`
}

// UserHandler serves the cart endpoints for the authenticated user and the
// admin-only account management routes.
type UserHandler struct {
	repo ports.UserRepository
	auth ports.AuthService
}

func NewUserHandler(repo ports.UserRepository, auth ports.AuthService) *UserHandler {
	return &UserHandler{repo: repo, auth: auth}
}

// Cart handles GET /users/cart.
func (h *UserHandler) Cart(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.repo.FindByID(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"cart": user.Cart})
}

// SaveCart handles PUT /users/cart — replaces the stored cart wholesale so
// the client can resume a session on another device.
func (h *UserHandler) SaveCart(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req cartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.repo.ReplaceCart(c.Request().Context(), userID, req.Cart)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "cart saved",
		"cart":    user.Cart,
	})
}

// CreateUser handles POST /users — admin account provisioning. Reuses the
// registration flow so validation and hashing live in one place.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "user created",
		"user":    user,
	})
}

// UpdateUser handles PUT /users/:id.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.repo.Update(c.Request().Context(), c.Param("id"), req.Email, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "user updated",
		"user":    user,
	})
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.repo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "user deleted"})
}
