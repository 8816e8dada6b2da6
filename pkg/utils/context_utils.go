package utils

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// ErrNoUserInContext is returned when a handler runs without the auth middleware.
var ErrNoUserInContext = errors.New("user id missing from request context")

// GetUserIDFromContext returns the id the JWT middleware stored under "userID".
func GetUserIDFromContext(c echo.Context) (string, error) {
	userID, ok := c.Get("userID").(string)
	if !ok || userID == "" {
		return "", ErrNoUserInContext
	}
	return userID, nil
}
