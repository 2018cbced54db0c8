package http

import (
	"log/slog"
	"net/http"

	"kitabu-backend/internal/usecase/expense"

	"github.com/labstack/echo/v4"
)

type ExpenseHandler struct {
	uc  *expense.Usecase
	log *slog.Logger
}

func NewExpenseHandler(uc *expense.Usecase, log *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{uc: uc, log: log}
}

type requestExpenseReq struct {
	VslaID      string  `json:"vsla_id" validate:"required"`
	MemberID    string  `json:"member_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0,dec2"`
	Description string  `json:"description" validate:"required,max=500"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *ExpenseHandler) Request(c echo.Context) error {
	var req requestExpenseReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	e, err := h.uc.Request(c.Request().Context(), callerOf(c), expense.RequestInput{
		VslaID:      req.VslaID,
		MemberID:    req.MemberID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        day(req.Date),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, e)
}

type resolveExpenseReq struct {
	Approved   *bool  `json:"approved" validate:"required"`
	ApproverID string `json:"approver_id"`
}

func (h *ExpenseHandler) Resolve(c echo.Context) error {
	var req resolveExpenseReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	e, err := h.uc.Resolve(c.Request().Context(), callerOf(c), expense.ResolveInput{
		ExpenseID:  c.Param("expense_id"),
		Approved:   *req.Approved,
		ApproverID: req.ApproverID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, e)
}
