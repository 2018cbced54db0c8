package http

import (
	"net/http"
	"time"

	"kitabu-backend/internal/adapter/middleware"
	"kitabu-backend/internal/domain/tenant"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

func callerOf(c echo.Context) tenant.Caller {
	caller, _ := middleware.CallerFrom(c)
	return caller
}

// decode binds and validates req. When ok is false the error response
// has already been written and err is what the handler should return.
func decode(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	return true, nil
}

// day parses a validated yyyy-mm-dd value; empty gives the zero time.
func day(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dateLayout, s)
	return t
}
