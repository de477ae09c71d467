package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/middleware"
)

// respondError maps a service error onto the JSON error body. The original
// error is kept as the internal cause so the request logger records it.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "VALIDATION_ERROR",
	})
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func currentIdentity(c echo.Context) (*auth.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, respondError(c, errors.ErrUnauthenticated)
	}
	return identity, nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(fmt.Sprintf("invalid id %q", c.Param("id")))
	}
	return uint(id), nil
}

// searchQuery accepts both ?q= and the older ?query= spelling.
func searchQuery(c echo.Context) string {
	if q := c.QueryParam("q"); q != "" {
		return q
	}
	return c.QueryParam("query")
}
