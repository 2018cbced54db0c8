package http

import (
	"log/slog"
	"net/http"

	domainProject "kitabu-backend/internal/domain/project"
	"kitabu-backend/internal/usecase/partnership"
	"kitabu-backend/internal/usecase/project"

	"github.com/labstack/echo/v4"
)

type ProjectHandler struct {
	projects     *project.Usecase
	partnerships *partnership.Usecase
	log          *slog.Logger
}

func NewProjectHandler(projects *project.Usecase, partnerships *partnership.Usecase, log *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, partnerships: partnerships, log: log}
}

type createProjectReq struct {
	VslaID      string  `json:"vsla_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	CapitalCost float64 `json:"capital_cost" validate:"gte=0,dec2"`
	StartDate   string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Category    string  `json:"category" validate:"omitempty,oneof=Poultry Agribusiness Retail Service Other"`
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req createProjectReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	p, err := h.projects.Create(c.Request().Context(), callerOf(c), project.CreateInput{
		VslaID:      req.VslaID,
		Name:        req.Name,
		Description: req.Description,
		CapitalCost: req.CapitalCost,
		StartDate:   day(req.StartDate),
		Category:    domainProject.Category(req.Category),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

type projectTxReq struct {
	Type        string  `json:"type" validate:"required,oneof=Income Expense"`
	Amount      float64 `json:"amount" validate:"gt=0,dec2"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *ProjectHandler) PostTransaction(c echo.Context) error {
	var req projectTxReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	tx, err := h.projects.Post(c.Request().Context(), callerOf(c), project.PostInput{
		ProjectID:   c.Param("project_id"),
		Type:        domainProject.TxType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Date:        day(req.Date),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, tx)
}

func (h *ProjectHandler) Metrics(c echo.Context) error {
	m, err := h.projects.Metrics(c.Request().Context(), callerOf(c), c.Param("project_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, m)
}

type postPartnershipReq struct {
	VslaID      string  `json:"vsla_id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget" validate:"gt=0,dec2"`
	Category    string  `json:"category"`
}

func (h *ProjectHandler) PostPartnership(c echo.Context) error {
	var req postPartnershipReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	p, err := h.partnerships.Post(c.Request().Context(), callerOf(c), partnership.PostInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

type fundReq struct {
	Amount float64 `json:"amount" validate:"gt=0,dec2"`
}

func (h *ProjectHandler) Fund(c echo.Context) error {
	var req fundReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	p, err := h.partnerships.Fund(c.Request().Context(), callerOf(c), c.Param("partnership_id"), req.Amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}
