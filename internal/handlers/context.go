package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user id set by the auth
// middleware, or zero when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	if id, ok := c.Get("userID").(uint); ok {
		return id
	}
	return 0
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// serviceError maps service failure kinds to HTTP errors. Visibility
// denials are shaped as 404 in the handlers themselves so the response
// does not reveal whether the denial was privacy, a block, or a ban.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrFollowSelf),
		errors.Is(err, services.ErrBlockSelf):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrBlocked):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
