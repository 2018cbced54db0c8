package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kitabu-backend/internal/domain/audit"
	domainProject "kitabu-backend/internal/domain/project"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/uow"
	"kitabu-backend/internal/domain/vsla"
	"kitabu-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	uow      uow.UnitOfWork
	notifier uow.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, n uow.Notifier, log *slog.Logger) *Usecase {
	if n == nil {
		n = uow.NopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{uow: tx, notifier: n, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) Create(ctx context.Context, c tenant.Caller, in CreateInput) (*domainProject.InvestmentProject, error) {
	if in.VslaID == "" || strings.TrimSpace(in.Name) == "" || in.CapitalCost < 0 {
		return nil, domainProject.ErrInvalidInput
	}
	if in.Category == "" {
		in.Category = domainProject.CategoryOther
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: category %q", domainProject.ErrInvalidInput, in.Category)
	}
	now := u.now()
	var out *domainProject.InvestmentProject
	var tenantID string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := u.vsla(ctx, r, c, in.VslaID)
		if err != nil {
			return err
		}
		start := in.StartDate
		if start.IsZero() {
			start = now
		}
		p := &domainProject.InvestmentProject{
			ID:            id.NewID32(),
			VslaID:        v.ID,
			Name:          in.Name,
			Description:   in.Description,
			CapitalCost:   in.CapitalCost,
			StartDate:     start.UTC(),
			IsActive:      true,
			Category:      in.Category,
			TargetROI:     domainProject.DefaultTargetROI,
			FundingStatus: domainProject.FundingSeeking,
		}
		if err := r.Projects.Create(ctx, p); err != nil {
			return err
		}
		detail := fmt.Sprintf("Started %s project %q with capital %.2f", p.Category, p.Name, p.CapitalCost)
		if err := r.Audit.Create(ctx, audit.New(v.TenantID, c.Actor(), audit.ActionProjectInit, detail, now)); err != nil {
			return err
		}
		out, tenantID = p, v.TenantID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "investment project created", "tenant_id", tenantID, "actor", c.Actor(), "project_id", out.ID)
	u.notifier.Notify(tenantID)
	return out, nil
}

// Post appends an income or expense entry. There is no liquidity gate on
// the project sub-ledger.
func (u *Usecase) Post(ctx context.Context, c tenant.Caller, in PostInput) (*domainProject.Transaction, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: type %q", domainProject.ErrInvalidInput, in.Type)
	}
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: negative amount", domainProject.ErrInvalidInput)
	}
	now := u.now()
	var out *domainProject.Transaction
	var tenantID string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Projects.GetByID(ctx, in.ProjectID)
		if err != nil {
			return notFound(err, domainProject.ErrNotFound)
		}
		v, err := u.vsla(ctx, r, c, p.VslaID)
		if err != nil {
			return err
		}
		date := in.Date
		if date.IsZero() {
			date = now
		}
		t := &domainProject.Transaction{
			ID:          id.NewID32(),
			ProjectID:   p.ID,
			Type:        in.Type,
			Amount:      in.Amount,
			Description: in.Description,
			Date:        date.UTC(),
		}
		if err := r.Projects.CreateTransaction(ctx, t); err != nil {
			return err
		}
		detail := fmt.Sprintf("%s of %.2f on %q", t.Type, t.Amount, p.Name)
		if err := r.Audit.Create(ctx, audit.New(v.TenantID, c.Actor(), audit.ActionProjectTx, detail, now)); err != nil {
			return err
		}
		out, tenantID = t, v.TenantID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "project transaction posted", "tenant_id", tenantID, "actor", c.Actor(), "project_id", out.ProjectID, "type", out.Type)
	u.notifier.Notify(tenantID)
	return out, nil
}

func (u *Usecase) Metrics(ctx context.Context, c tenant.Caller, projectID string) (*Metrics, error) {
	var out Metrics
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Projects.GetByID(ctx, projectID)
		if err != nil {
			return notFound(err, domainProject.ErrNotFound)
		}
		if _, err := u.vsla(ctx, r, c, p.VslaID); err != nil {
			return err
		}
		txs, err := r.Projects.ListTransactions(ctx, p.ID)
		if err != nil {
			return err
		}
		out = Compute(p.CapitalCost, txs)
		out.ProjectID = p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Usecase) vsla(ctx context.Context, r uow.Repos, c tenant.Caller, vslaID string) (*vsla.Vsla, error) {
	v, err := r.Vslas.GetByID(ctx, vslaID)
	if err != nil {
		return nil, notFound(err, vsla.ErrNotFound)
	}
	if !c.Owns(v.TenantID) {
		return nil, tenant.ErrForbidden
	}
	return v, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
