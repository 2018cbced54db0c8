package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kitabu-backend/internal/domain/audit"
	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/uow"
	"kitabu-backend/internal/domain/vsla"
	"kitabu-backend/pkg/id"

	"gorm.io/gorm"
)

// ErrInvalidInput covers registration forms missing required fields.
var ErrInvalidInput = errors.New("invalid registration input")

const defaultSmsGateway = "AfricasTalking"

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

// RegisterTenant provisions an NGO (KYN0001...) or donor (KYD001...).
func (u *Usecase) RegisterTenant(ctx context.Context, c tenant.Caller, in TenantInput) (*tenant.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Kind == "" {
		in.Kind = tenant.KindNGO
	}
	if in.Kind != tenant.KindNGO && in.Kind != tenant.KindDonor {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidInput, in.Kind)
	}
	slug := id.Slug(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name has no letters or digits", ErrInvalidInput)
	}
	now := u.now()
	var out *tenant.Tenant

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Tenants.FindBySlugOrName(ctx, slug); err == nil {
			return fmt.Errorf("%w: %s", tenant.ErrDuplicate, slug)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		prefix, width := in.Kind.Prefix()
		n, err := r.Tenants.CountByPrefix(ctx, prefix)
		if err != nil {
			return err
		}
		t := &tenant.Tenant{
			ID:           id.Sequential(prefix, n, width),
			Slug:         slug,
			Name:         name,
			Kind:         in.Kind,
			Email:        in.Email,
			Country:      in.Country,
			County:       in.County,
			Constituency: in.Constituency,
			Ward:         in.Ward,
			SmsGateway:   defaultSmsGateway,
			CreatedAt:    now,
		}
		if err := r.Tenants.Create(ctx, t); err != nil {
			return err
		}
		detail := fmt.Sprintf("Provisioned %s organization %s (%s)", t.Kind, t.Name, t.ID)
		if err := r.Audit.Create(ctx, audit.New(t.ID, c.Actor(), audit.ActionOrgProvision, detail, now)); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "tenant registered", "tenant_id", out.ID, "actor", c.Actor(), "kind", out.Kind)
	u.notifier.Notify(out.ID)
	return out, nil
}

// RegisterVsla creates a pending group, attached to the NGO named by
// NgoIdentifier or else to the caller's tenant.
func (u *Usecase) RegisterVsla(ctx context.Context, c tenant.Caller, in VslaInput) (*vsla.Vsla, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	now := u.now()
	var out *vsla.Vsla

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		tenantID := c.TenantID
		if ident := strings.TrimSpace(in.NgoIdentifier); ident != "" {
			t, err := r.Tenants.FindBySlugOrName(ctx, ident)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				t, err = r.Tenants.GetByID(ctx, ident)
			}
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", tenant.ErrNotFound, ident)
				}
				return err
			}
			tenantID = t.ID
		}
		n, err := r.Vslas.Count(ctx)
		if err != nil {
			return err
		}
		vid := id.Sequential(vsla.Prefix, n, vsla.Width)
		v := &vsla.Vsla{
			ID:           vid,
			TenantID:     tenantID,
			Name:         name,
			InviteCode:   vsla.InviteCode(name, vid),
			Country:      in.Country,
			County:       in.County,
			Constituency: in.Constituency,
			Ward:         in.Ward,
			Village:      in.Village,
			Status:       vsla.StatusPending,
			RegisteredAt: now,
		}
		if err := r.Vslas.Create(ctx, v); err != nil {
			return err
		}
		detail := fmt.Sprintf("Registered %s (%s) invite %s", v.Name, v.ID, v.InviteCode)
		if err := r.Audit.Create(ctx, audit.New(tenantID, c.Actor(), audit.ActionVslaRegister, detail, now)); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "vsla registered", "tenant_id", out.TenantID, "actor", c.Actor(), "vsla_id", out.ID)
	u.notifier.Notify(out.TenantID)
	return out, nil
}

func (u *Usecase) SetVslaStatus(ctx context.Context, c tenant.Caller, vslaID string, status vsla.Status) (*vsla.Vsla, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", vsla.ErrInvalidStatus, status)
	}
	now := u.now()
	var out *vsla.Vsla

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := u.ownedVsla(ctx, r, c, vslaID)
		if err != nil {
			return err
		}
		prev := v.Status
		v.Status = status
		if err := r.Vslas.Save(ctx, v); err != nil {
			return err
		}
		detail := fmt.Sprintf("%s status %s -> %s", v.ID, prev, status)
		if err := r.Audit.Create(ctx, audit.New(v.TenantID, c.Actor(), audit.ActionVslaStatus, detail, now)); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "vsla status changed", "tenant_id", out.TenantID, "actor", c.Actor(), "vsla_id", out.ID, "status", out.Status)
	u.notifier.Notify(out.TenantID)
	return out, nil
}

// OpenCycle starts a new active cycle and closes any other active one of
// the same VSLA in the same transaction.
func (u *Usecase) OpenCycle(ctx context.Context, c tenant.Caller, in CycleInput) (*vsla.Cycle, error) {
	if strings.TrimSpace(in.Name) == "" || in.SharePrice < 0 || in.InterestRate < 0 {
		return nil, vsla.ErrInvalidCycle
	}
	now := u.now()
	start := in.StartDate
	if start.IsZero() {
		start = now
	}
	if in.EndDate != nil && in.EndDate.Before(start) {
		return nil, fmt.Errorf("%w: end before start", vsla.ErrInvalidCycle)
	}
	var out *vsla.Cycle
	var tenantID string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := u.ownedVsla(ctx, r, c, in.VslaID)
		if err != nil {
			return err
		}
		if err := r.Vslas.DeactivateCycles(ctx, v.ID); err != nil {
			return err
		}
		cy := &vsla.Cycle{
			ID:           id.NewID32(),
			VslaID:       v.ID,
			Name:         in.Name,
			StartDate:    start.UTC(),
			EndDate:      in.EndDate,
			SharePrice:   in.SharePrice,
			InterestRate: in.InterestRate,
			IsActive:     true,
			CreatedAt:    now,
		}
		if err := r.Vslas.CreateCycle(ctx, cy); err != nil {
			return err
		}
		detail := fmt.Sprintf("Opened %q for %s at %.2f%% interest, share %.2f", cy.Name, v.ID, cy.InterestRate, cy.SharePrice)
		if err := r.Audit.Create(ctx, audit.New(v.TenantID, c.Actor(), audit.ActionCycleOpen, detail, now)); err != nil {
			return err
		}
		out, tenantID = cy, v.TenantID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "cycle opened", "tenant_id", tenantID, "actor", c.Actor(), "cycle_id", out.ID)
	u.notifier.Notify(tenantID)
	return out, nil
}

// EnrollMember adds a person to a VSLA. A person already known by national
// id or phone keeps their member code.
func (u *Usecase) EnrollMember(ctx context.Context, c tenant.Caller, in MemberInput) (*member.Member, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", member.ErrInvalidInput)
	}
	if in.Phone == "" && in.NationalID == "" {
		return nil, fmt.Errorf("%w: phone or national id is required", member.ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = member.GroupRoleMember
	}
	now := u.now()
	var out *member.Member

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := u.ownedVsla(ctx, r, c, in.VslaID)
		if err != nil {
			return err
		}

		var kyID string
		existing, err := r.Members.FindByIdentity(ctx, in.NationalID, in.Phone)
		switch {
		case err == nil:
			kyID = existing.MemberKyID
		case errors.Is(err, gorm.ErrRecordNotFound):
			n, err := r.Members.Count(ctx)
			if err != nil {
				return err
			}
			kyID = id.Sequential(member.Prefix, n, member.Width)
		default:
			return err
		}

		m := &member.Member{
			ID:         id.NewID32(),
			MemberKyID: kyID,
			TenantID:   v.TenantID,
			VslaID:     v.ID,
			FirstName:  strings.TrimSpace(in.FirstName),
			LastName:   strings.TrimSpace(in.LastName),
			Phone:      in.Phone,
			NationalID: in.NationalID,
			Role:       in.Role,
			Gender:     in.Gender,
			Status:     member.StatusActive,
			JoinDate:   now,
		}
		if err := r.Members.Create(ctx, m); err != nil {
			return err
		}
		detail := fmt.Sprintf("Enrolled %s (%s) into %s as %s", m.FullName(), m.MemberKyID, v.Name, m.Role)
		if err := r.Audit.Create(ctx, audit.New(v.TenantID, c.Actor(), audit.ActionMemberEnroll, detail, now)); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "member enrolled", "tenant_id", out.TenantID, "actor", c.Actor(), "member_id", out.ID, "member_ky_id", out.MemberKyID)
	u.notifier.Notify(out.TenantID)
	return out, nil
}

func (u *Usecase) ownedVsla(ctx context.Context, r uow.Repos, c tenant.Caller, vslaID string) (*vsla.Vsla, error) {
	v, err := r.Vslas.GetByID(ctx, vslaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vsla.ErrNotFound
		}
		return nil, err
	}
	if !c.Owns(v.TenantID) {
		return nil, tenant.ErrForbidden
	}
	return v, nil
}
