package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"kitabu-backend/internal/usecase/audit"
	"kitabu-backend/internal/usecase/replication"

	"github.com/labstack/echo/v4"
)

const defaultAuditLimit = 100

type AuditHandler struct {
	uc  *audit.Usecase
	log *slog.Logger
}

func NewAuditHandler(uc *audit.Usecase, log *slog.Logger) *AuditHandler {
	return &AuditHandler{uc: uc, log: log}
}

func (h *AuditHandler) List(c echo.Context) error {
	limit := defaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
		}
		limit = n
	}
	logs, err := h.uc.List(c.Request().Context(), callerOf(c), limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, logs)
}

type logActionReq struct {
	Action  string `json:"action" validate:"required,max=32"`
	Details string `json:"details" validate:"max=1000"`
}

func (h *AuditHandler) Log(c echo.Context) error {
	var req logActionReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	entry, err := h.uc.Log(c.Request().Context(), callerOf(c), req.Action, req.Details)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

type SyncHandler struct {
	syncer *replication.Syncer
	log    *slog.Logger
}

func NewSyncHandler(s *replication.Syncer, log *slog.Logger) *SyncHandler {
	return &SyncHandler{syncer: s, log: log}
}

// SyncNow pushes the store for the caller's tenant. Super admins without a
// tenant may name one with ?tenant_id=.
func (h *SyncHandler) SyncNow(c echo.Context) error {
	caller := callerOf(c)
	tenantID := caller.TenantID
	if tenantID == "" && caller.IsSuperAdmin() {
		tenantID = c.QueryParam("tenant_id")
	}
	if tenantID == "" {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "tenant id is required"})
	}
	if err := h.syncer.SyncNow(c.Request().Context(), tenantID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.syncer.Status())
}

func (h *SyncHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.syncer.Status())
}
