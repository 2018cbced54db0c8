package http

import (
	"log/slog"
	"net/http"

	"kitabu-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *slog.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *slog.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

type issueLoanReq struct {
	MemberID            string  `json:"member_id" validate:"required"`
	Amount              float64 `json:"amount" validate:"gt=0,dec2"`
	DurationMonths      int     `json:"duration_months" validate:"gt=0,lte=120"`
	MeetingID           string  `json:"meeting_id"`
	ConfirmOverCapacity bool    `json:"confirm_over_capacity"`
}

func (h *LoanHandler) IssueLoan(c echo.Context) error {
	var req issueLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Issue(c.Request().Context(), callerOf(c), loan.IssueLoanInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), callerOf(c), c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type repayLoanReq struct {
	Principal float64 `json:"principal" validate:"gte=0,dec2"`
	Interest  float64 `json:"interest" validate:"gte=0,dec2"`
}

func (h *LoanHandler) Repay(c echo.Context) error {
	var req repayLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Repay(c.Request().Context(), callerOf(c), c.Param("loan_id"), loan.RepayLoanInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) MarkDefaulted(c echo.Context) error {
	dto, err := h.uc.MarkDefaulted(c.Request().Context(), callerOf(c), c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Capacity(c echo.Context) error {
	dto, err := h.uc.Capacity(c.Request().Context(), callerOf(c), c.Param("member_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
