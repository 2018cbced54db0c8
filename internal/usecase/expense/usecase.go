package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kitabu-backend/internal/domain/audit"
	domainExpense "kitabu-backend/internal/domain/expense"
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

// Request files a requisition against the group fund. It counts against
// cash only once approved.
func (u *Usecase) Request(ctx context.Context, c tenant.Caller, in RequestInput) (*domainExpense.Expense, error) {
	if in.VslaID == "" || in.Amount <= 0 || strings.TrimSpace(in.Description) == "" {
		return nil, domainExpense.ErrInvalidInput
	}
	now := u.now()
	var out *domainExpense.Expense
	var tenantID string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := r.Vslas.GetByID(ctx, in.VslaID)
		if err != nil {
			return notFound(err, vsla.ErrNotFound)
		}
		if !c.Owns(v.TenantID) {
			return tenant.ErrForbidden
		}
		cycleID := vsla.DefaultCycleID
		if cy, err := r.Vslas.ActiveCycle(ctx, v.ID); err == nil {
			cycleID = cy.ID
		} else if !errors.Is(err, vsla.ErrNoActiveCycle) {
			return err
		}

		date := in.Date
		if date.IsZero() {
			date = now
		}
		memberID := in.MemberID
		if memberID == "" {
			memberID = c.Actor()
		}
		e := &domainExpense.Expense{
			ID:          id.NewID32(),
			VslaID:      v.ID,
			CycleID:     cycleID,
			MemberID:    memberID,
			Amount:      in.Amount,
			Description: in.Description,
			Date:        date.UTC(),
			Status:      domainExpense.StatusPendingApproval,
		}
		if err := r.Expenses.Create(ctx, e); err != nil {
			return err
		}
		detail := fmt.Sprintf("Requested %.2f for %q in %s", e.Amount, e.Description, v.Name)
		if err := r.Audit.Create(ctx, audit.New(v.TenantID, c.Actor(), audit.ActionExpenseReq, detail, now)); err != nil {
			return err
		}
		out, tenantID = e, v.TenantID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "expense requested", "tenant_id", tenantID, "actor", c.Actor(), "expense_id", out.ID)
	u.notifier.Notify(tenantID)
	return out, nil
}

// Resolve approves or rejects a pending expense exactly once.
func (u *Usecase) Resolve(ctx context.Context, c tenant.Caller, in ResolveInput) (*domainExpense.Expense, error) {
	now := u.now()
	var out *domainExpense.Expense
	var tenantID string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Lock expense row for update
		e, err := r.Expenses.GetByIDForUpdate(ctx, in.ExpenseID)
		if err != nil {
			return notFound(err, domainExpense.ErrNotFound)
		}
		v, err := r.Vslas.GetByID(ctx, e.VslaID)
		if err != nil {
			return notFound(err, vsla.ErrNotFound)
		}
		if !c.Owns(v.TenantID) {
			return tenant.ErrForbidden
		}
		if e.Resolved() {
			return fmt.Errorf("%w: %s", domainExpense.ErrAlreadyResolved, e.Status)
		}

		approver := in.ApproverID
		if approver == "" {
			approver = c.Actor()
		}
		e.Status = domainExpense.StatusRejected
		if in.Approved {
			e.Status = domainExpense.StatusApproved
		}
		e.ApprovedBy = approver
		e.UpdatedAt = &now
		if err := r.Expenses.Save(ctx, e); err != nil {
			return err
		}
		detail := fmt.Sprintf("Expense %s of %.2f %s by %s", e.ID, e.Amount, strings.ToLower(string(e.Status)), approver)
		if err := r.Audit.Create(ctx, audit.New(v.TenantID, c.Actor(), audit.ActionExpenseAuth, detail, now)); err != nil {
			return err
		}
		out, tenantID = e, v.TenantID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "expense resolved", "tenant_id", tenantID, "actor", c.Actor(), "expense_id", out.ID, "status", out.Status)
	u.notifier.Notify(tenantID)
	return out, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
