package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/dates"
	"github.com/iliyamo/rental-booking/internal/logger"
)

// respondError writes err as {"error": message} with the status of its
// apperror kind. Anything else is logged and reported as 500.
func respondError(c echo.Context, err error) error {
	if ae, ok := apperror.As(err); ok {
		return c.JSON(ae.StatusCode(), echo.Map{"error": ae.Message, "kind": ae.Kind})
	}
	logger.Log.WithError(err).WithField("path", c.Path()).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// paramID parses the :id path parameter.
func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("invalid id %q", c.Param("id"))
	}
	return id, nil
}

// queryInt parses an optional integer query parameter; missing means def.
func queryInt(c echo.Context, name string, def int) (int, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperror.Validation("invalid %s %q", name, v)
	}
	return n, nil
}

// queryDay parses a required date query parameter in loc.
func queryDay(c echo.Context, name string, loc *time.Location) (civil.Date, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return civil.Date{}, apperror.Validation("%s is required", name)
	}
	return dates.ParseDay(v, loc)
}
