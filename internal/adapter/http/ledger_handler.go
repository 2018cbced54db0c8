package http

import (
	"log/slog"
	"net/http"

	domainLedger "kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

type LedgerHandler struct {
	uc  *ledger.Usecase
	log *slog.Logger
}

func NewLedgerHandler(uc *ledger.Usecase, log *slog.Logger) *LedgerHandler {
	return &LedgerHandler{uc: uc, log: log}
}

type addTransactionReq struct {
	MemberID    string  `json:"member_id" validate:"required"`
	MeetingID   string  `json:"meeting_id"`
	Type        string  `json:"type" validate:"required,txtype"`
	Amount      float64 `json:"amount" validate:"gt=0,dec2"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description" validate:"max=500"`
}

func (h *LedgerHandler) AddTransaction(c echo.Context) error {
	var req addTransactionReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	tx, err := h.uc.AddTransaction(c.Request().Context(), callerOf(c), ledger.AddTransactionInput{
		MemberID:    req.MemberID,
		MeetingID:   req.MeetingID,
		Type:        domainLedger.Type(req.Type),
		Amount:      req.Amount,
		Date:        day(req.Date),
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, tx)
}

func (h *LedgerHandler) DeleteTransaction(c echo.Context) error {
	tx, err := h.uc.SoftDelete(c.Request().Context(), callerOf(c), c.Param("tx_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tx)
}

func (h *LedgerHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context(), callerOf(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Scope returns every record the caller may see plus its summary.
func (h *LedgerHandler) Scope(c echo.Context) error {
	v, err := h.uc.ScopedView(c.Request().Context(), callerOf(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *LedgerHandler) DonorMetrics(c echo.Context) error {
	m, err := h.uc.DonorMetrics(c.Request().Context(), callerOf(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, m)
}
