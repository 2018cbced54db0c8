package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kitabu-backend/internal/domain/audit"
	domainLedger "kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/uow"
	"kitabu-backend/internal/domain/vsla"
	"kitabu-backend/internal/usecase/scope"
	"kitabu-backend/pkg/id"

	"github.com/shopspring/decimal"
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

// AddTransaction records a manual ledger entry for a member of the caller's tenant.
func (u *Usecase) AddTransaction(ctx context.Context, c tenant.Caller, in AddTransactionInput) (*domainLedger.Transaction, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", domainLedger.ErrInvalidType, in.Type)
	}
	if in.Amount < 0 {
		return nil, domainLedger.ErrInvalidAmount
	}
	now := u.now()
	var out *domainLedger.Transaction

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := r.Members.GetByID(ctx, in.MemberID)
		if err != nil {
			return notFound(err, member.ErrNotFound)
		}
		if !c.Owns(m.TenantID) {
			return tenant.ErrForbidden
		}
		cycleID := vsla.DefaultCycleID
		if cy, err := r.Vslas.ActiveCycle(ctx, m.VslaID); err == nil {
			cycleID = cy.ID
		} else if !errors.Is(err, vsla.ErrNoActiveCycle) {
			return err
		}

		date := in.Date
		if date.IsZero() {
			date = now
		}
		t := &domainLedger.Transaction{
			ID:          id.NewID32(),
			TenantID:    m.TenantID,
			VslaID:      m.VslaID,
			CycleID:     cycleID,
			MemberID:    m.ID,
			MeetingID:   in.MeetingID,
			Type:        in.Type,
			Amount:      Money(Amount(in.Amount)),
			Date:        date.UTC(),
			Description: in.Description,
			RecordedBy:  c.Actor(),
		}
		if err := r.Ledger.Create(ctx, t); err != nil {
			return err
		}
		detail := fmt.Sprintf("%s of %.2f for %s", t.Type, t.Amount, m.FullName())
		if err := r.Audit.Create(ctx, audit.New(t.TenantID, c.Actor(), audit.ActionTxRecord, detail, now)); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "transaction recorded", "tenant_id", out.TenantID, "actor", c.Actor(), "tx_id", out.ID, "type", out.Type)
	u.notifier.Notify(out.TenantID)
	return out, nil
}

// SoftDelete voids a transaction; it stays stored but leaves every sum.
func (u *Usecase) SoftDelete(ctx context.Context, c tenant.Caller, txID string) (*domainLedger.Transaction, error) {
	now := u.now()
	var out *domainLedger.Transaction

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Ledger.GetByID(ctx, txID)
		if err != nil {
			return notFound(err, domainLedger.ErrNotFound)
		}
		if !c.Owns(t.TenantID) {
			return tenant.ErrForbidden
		}
		if t.IsSoftDeleted {
			return domainLedger.ErrAlreadyDeleted
		}
		t.IsSoftDeleted = true
		if err := r.Ledger.Save(ctx, t); err != nil {
			return err
		}
		detail := fmt.Sprintf("voided %s %s of %.2f", t.Type, t.ID, t.Amount)
		if err := r.Audit.Create(ctx, audit.New(t.TenantID, c.Actor(), audit.ActionTxVoid, detail, now)); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "transaction voided", "tenant_id", out.TenantID, "actor", c.Actor(), "tx_id", out.ID)
	u.notifier.Notify(out.TenantID)
	return out, nil
}

// View loads the store and applies the caller's scope.
func (u *Usecase) View(ctx context.Context, c tenant.Caller) (scope.View, error) {
	var snap *store.Snapshot
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Store.Load(ctx)
		snap = s
		return err
	})
	if err != nil {
		return scope.View{}, err
	}
	return scope.Filter(snap, c), nil
}

func (u *Usecase) Summary(ctx context.Context, c tenant.Caller) (Summary, error) {
	v, err := u.View(ctx, c)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(v.Transactions, v.Expenses, v.Loans), nil
}

func (u *Usecase) ScopedView(ctx context.Context, c tenant.Caller) (*ScopedView, error) {
	v, err := u.View(ctx, c)
	if err != nil {
		return nil, err
	}
	return &ScopedView{View: v, Summary: Summarize(v.Transactions, v.Expenses, v.Loans)}, nil
}

// DonorMetrics reports impact figures over the caller's scope.
func (u *Usecase) DonorMetrics(ctx context.Context, c tenant.Caller) (DonorMetrics, error) {
	v, err := u.View(ctx, c)
	if err != nil {
		return DonorMetrics{}, err
	}
	s := Summarize(v.Transactions, v.Expenses, v.Loans)
	out := DonorMetrics{
		TotalSavings: s.Savings,
		TotalLoans:   s.Disbursed,
		MemberCount:  len(v.Members),
	}
	for _, m := range v.Members {
		if m.Gender == member.GenderFemale {
			out.FemaleCount++
		}
	}
	if s.Savings > 0 {
		out.UtilizationRate = Money(Amount(s.Disbursed).Div(Amount(s.Savings)).Mul(decimal.NewFromInt(100)))
	}
	return out, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
