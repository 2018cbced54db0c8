package partnership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kitabu-backend/internal/domain/audit"
	domainPartnership "kitabu-backend/internal/domain/partnership"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/uow"
	"kitabu-backend/internal/domain/vsla"
	"kitabu-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostInput struct {
	VslaID      string
	Title       string
	Description string
	Budget      float64
	Category    string
}

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

// Post lists a VSLA funding request on the donor marketplace.
func (u *Usecase) Post(ctx context.Context, c tenant.Caller, in PostInput) (*domainPartnership.Project, error) {
	if in.VslaID == "" || strings.TrimSpace(in.Title) == "" || in.Budget <= 0 {
		return nil, domainPartnership.ErrInvalidInput
	}
	now := u.now()
	var out *domainPartnership.Project

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := r.Vslas.GetByID(ctx, in.VslaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return vsla.ErrNotFound
			}
			return err
		}
		tenantID := v.TenantID
		if tenantID == "" {
			tenantID = c.TenantID
		}
		if !c.Owns(tenantID) {
			return tenant.ErrForbidden
		}
		p := &domainPartnership.Project{
			ID:          id.NewID32(),
			Title:       in.Title,
			Description: in.Description,
			VslaID:      v.ID,
			TenantID:    tenantID,
			Budget:      in.Budget,
			Status:      domainPartnership.StatusOpen,
			Category:    in.Category,
			MEScore:     domainPartnership.DefaultMEScore,
			CreatedAt:   now,
		}
		if err := r.Partnerships.Create(ctx, p); err != nil {
			return err
		}
		detail := fmt.Sprintf("Posted %q for %s seeking %.2f", p.Title, v.Name, p.Budget)
		if err := r.Audit.Create(ctx, audit.New(tenantID, c.Actor(), audit.ActionMarketPost, detail, now)); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "partnership posted", "tenant_id", out.TenantID, "actor", c.Actor(), "partnership_id", out.ID)
	u.notifier.Notify(out.TenantID)
	return out, nil
}

// Fund adds a donor commitment. The project flips to Funded once the
// cumulative amount reaches the budget.
func (u *Usecase) Fund(ctx context.Context, c tenant.Caller, partnershipID string, amount float64) (*domainPartnership.Project, error) {
	if c.Role != tenant.RoleDonor && !c.IsSuperAdmin() {
		return nil, tenant.ErrForbidden
	}
	if amount <= 0 {
		return nil, domainPartnership.ErrInvalidInput
	}
	now := u.now()
	var out *domainPartnership.Project

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Partnerships.GetByIDForUpdate(ctx, partnershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPartnership.ErrNotFound
			}
			return err
		}
		if p.Status != domainPartnership.StatusOpen {
			return fmt.Errorf("%w: %s", domainPartnership.ErrNotOpen, p.Status)
		}
		funded := decimal.NewFromFloat(p.FundedAmount).Add(decimal.NewFromFloat(amount)).Round(2)
		p.FundedAmount, _ = funded.Float64()
		if funded.GreaterThanOrEqual(decimal.NewFromFloat(p.Budget)) {
			p.Status = domainPartnership.StatusFunded
		}
		if err := r.Partnerships.Save(ctx, p); err != nil {
			return err
		}
		detail := fmt.Sprintf("Committed %.2f to %q (%.2f of %.2f)", amount, p.Title, p.FundedAmount, p.Budget)
		if err := r.Audit.Create(ctx, audit.New(p.TenantID, c.Actor(), audit.ActionMarketFund, detail, now)); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "partnership funded", "tenant_id", out.TenantID, "actor", c.Actor(), "partnership_id", out.ID, "status", out.Status)
	u.notifier.Notify(out.TenantID)
	return out, nil
}
