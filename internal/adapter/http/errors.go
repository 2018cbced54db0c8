package http

import (
	"errors"
	"log/slog"
	"net/http"

	"kitabu-backend/internal/domain/expense"
	"kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/partnership"
	"kitabu-backend/internal/domain/project"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/vsla"
	"kitabu-backend/internal/usecase/audit"
	"kitabu-backend/internal/usecase/registry"
	"kitabu-backend/internal/usecase/replication"

	"github.com/labstack/echo/v4"
)

type capacityResponse struct {
	Error     string  `json:"error"`
	Capacity  float64 `json:"capacity"`
	Requested float64 `json:"requested"`
	// Hint names the flag that overrides the warning.
	Hint string `json:"hint"`
}

var (
	notFoundErrs = []error{
		tenant.ErrNotFound, vsla.ErrNotFound, member.ErrNotFound, ledger.ErrNotFound,
		loan.ErrNotFound, expense.ErrNotFound, project.ErrNotFound, partnership.ErrNotFound,
	}
	unprocessableErrs = []error{
		member.ErrInvalidInput, loan.ErrInvalidInput, expense.ErrInvalidInput, project.ErrInvalidInput,
		partnership.ErrInvalidInput, registry.ErrInvalidInput, audit.ErrInvalidAction,
		ledger.ErrInvalidType, ledger.ErrInvalidAmount, vsla.ErrInvalidStatus, vsla.ErrInvalidCycle,
		vsla.ErrNoActiveCycle, loan.ErrInsufficientCash,
	}
	conflictErrs = []error{
		loan.ErrNotActive, loan.ErrInvalidTransition, expense.ErrAlreadyResolved,
		partnership.ErrNotOpen, ledger.ErrAlreadyDeleted, tenant.ErrDuplicate,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps domain errors to HTTP codes; unknown errors are 500.
func statusFor(err error) int {
	switch {
	case isAny(err, notFoundErrs):
		return http.StatusNotFound
	case errors.Is(err, tenant.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrCapacityExceeded):
		return http.StatusConflict
	case isAny(err, unprocessableErrs):
		return http.StatusUnprocessableEntity
	case isAny(err, conflictErrs):
		return http.StatusConflict
	case errors.Is(err, replication.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, replication.ErrSyncFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, log *slog.Logger, err error) error {
	var warn *loan.CapacityWarning
	if errors.As(err, &warn) {
		return c.JSON(http.StatusConflict, capacityResponse{
			Error:     err.Error(),
			Capacity:  warn.Capacity,
			Requested: warn.Requested,
			Hint:      "resend with confirm_over_capacity=true to proceed",
		})
	}
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "err", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
