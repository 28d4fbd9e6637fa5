package middleware

import (
	"errors"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"

	RoleAdmin    = "admin"
	RoleMerchant = "merchant"
	RoleCustomer = "customer"
)

var ErrUnauthorized = errors.New("unauthorized")

// UserID returns the authenticated user's numeric id set by RequireAuth.
func UserID(c echo.Context) (uint, error) {
	s, ok := c.Get(ContextUserID).(string)
	if !ok || s == "" {
		return 0, ErrUnauthorized
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrUnauthorized
	}
	return uint(id), nil
}

func Role(c echo.Context) string {
	r, _ := c.Get(ContextRole).(string)
	return r
}

// HasRole reports whether the caller holds one of roles.
func HasRole(c echo.Context, roles ...string) bool {
	return slices.Contains(roles, Role(c))
}
