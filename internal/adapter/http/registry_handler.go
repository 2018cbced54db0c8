package http

import (
	"log/slog"
	"net/http"

	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/vsla"
	"kitabu-backend/internal/usecase/registry"

	"github.com/labstack/echo/v4"
)

type RegistryHandler struct {
	uc  *registry.Usecase
	log *slog.Logger
}

func NewRegistryHandler(uc *registry.Usecase, log *slog.Logger) *RegistryHandler {
	return &RegistryHandler{uc: uc, log: log}
}

type geographyReq struct {
	Country      string `json:"country"`
	County       string `json:"county"`
	Constituency string `json:"constituency"`
	Ward         string `json:"ward"`
}

func (g geographyReq) toInput() registry.Geography { return registry.Geography(g) }

type createTenantReq struct {
	Kind  string `json:"kind" validate:"required,oneof=ngo donor"`
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
	geographyReq
}

func (h *RegistryHandler) CreateTenant(c echo.Context) error {
	var req createTenantReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	t, err := h.uc.RegisterTenant(c.Request().Context(), callerOf(c), registry.TenantInput{
		Kind:      tenant.Kind(req.Kind),
		Name:      req.Name,
		Email:     req.Email,
		Geography: req.geographyReq.toInput(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

type createVslaReq struct {
	Name          string `json:"name" validate:"required,max=255"`
	Village       string `json:"village"`
	NgoIdentifier string `json:"ngo_identifier"`
	geographyReq
}

func (h *RegistryHandler) CreateVsla(c echo.Context) error {
	var req createVslaReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	v, err := h.uc.RegisterVsla(c.Request().Context(), callerOf(c), registry.VslaInput{
		Name:          req.Name,
		Village:       req.Village,
		NgoIdentifier: req.NgoIdentifier,
		Geography:     req.geographyReq.toInput(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, v)
}

type vslaStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended"`
}

func (h *RegistryHandler) SetVslaStatus(c echo.Context) error {
	var req vslaStatusReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	v, err := h.uc.SetVslaStatus(c.Request().Context(), callerOf(c), c.Param("vsla_id"), vsla.Status(req.Status))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

type openCycleReq struct {
	Name         string  `json:"name" validate:"required"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	SharePrice   float64 `json:"share_price" validate:"gt=0,dec2"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0,lte=100"`
}

func (h *RegistryHandler) OpenCycle(c echo.Context) error {
	var req openCycleReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	in := registry.CycleInput{
		VslaID:       c.Param("vsla_id"),
		Name:         req.Name,
		StartDate:    day(req.StartDate),
		SharePrice:   req.SharePrice,
		InterestRate: req.InterestRate,
	}
	if req.EndDate != "" {
		end := day(req.EndDate)
		in.EndDate = &end
	}
	cy, err := h.uc.OpenCycle(c.Request().Context(), callerOf(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, cy)
}

type enrollMemberReq struct {
	VslaID     string `json:"vsla_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
	Role       string `json:"role" validate:"omitempty,oneof=Chair Secretary Treasurer 'Loan Officer' Member"`
	Gender     string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
}

func (h *RegistryHandler) EnrollMember(c echo.Context) error {
	var req enrollMemberReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	m, err := h.uc.EnrollMember(c.Request().Context(), callerOf(c), registry.MemberInput{
		VslaID:     req.VslaID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		NationalID: req.NationalID,
		Role:       member.GroupRole(req.Role),
		Gender:     member.Gender(req.Gender),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, m)
}
