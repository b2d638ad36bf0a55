package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mipipizza/order-system/internal/api/middleware"
)

// ctxUserID extracts the subject id injected by the Auth middleware. An
// empty id means the middleware did not run; fail closed with 401 before any
// service call.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
