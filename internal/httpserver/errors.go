package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/service"
)

// fail logs err under event and converts it to the HTTP error the client sees.
func fail(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid input", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(v), nil
}
