package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kitabu-backend/internal/domain/audit"
	domainLedger "kitabu-backend/internal/domain/ledger"
	domainLoan "kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/uow"
	"kitabu-backend/internal/domain/vsla"
	ledgerUC "kitabu-backend/internal/usecase/ledger"
	"kitabu-backend/internal/usecase/scope"
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

// Issue disburses a loan at the VSLA's active cycle rate. It fails with
// ErrInsufficientCash when the group fund cannot cover the amount and with
// a *domainLoan.CapacityWarning when the member's capacity is exceeded and
// the caller has not confirmed.
func (u *Usecase) Issue(ctx context.Context, c tenant.Caller, in IssueLoanInput) (*LoanDTO, error) {
	if in.MemberID == "" || in.Amount <= 0 || in.DurationMonths < 1 {
		return nil, domainLoan.ErrInvalidInput
	}
	now := u.now()
	var out *domainLoan.Loan
	var tenantID string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := r.Members.GetByID(ctx, in.MemberID)
		if err != nil {
			return notFound(err, member.ErrNotFound)
		}
		if !c.Owns(m.TenantID) {
			return tenant.ErrForbidden
		}
		cycle, err := r.Vslas.ActiveCycle(ctx, m.VslaID)
		if err != nil {
			return err
		}

		snap, err := r.Store.Load(ctx)
		if err != nil {
			return err
		}
		view := scope.Filter(snap, c).Vsla(m.VslaID)
		cash := ledgerUC.Summarize(view.Transactions, view.Expenses, view.Loans).AvailableCash
		if in.Amount > cash {
			return fmt.Errorf("%w: requested %.2f, available %.2f", domainLoan.ErrInsufficientCash, in.Amount, cash)
		}
		if capacity := Capacity(view.Transactions, m.ID); in.Amount > capacity && !in.ConfirmOverCapacity {
			return &domainLoan.CapacityWarning{Capacity: capacity, Requested: in.Amount}
		}

		meetingID := in.MeetingID
		if meetingID == "" {
			meetingID = domainLoan.DirectMeetingID
		}
		amount := ledgerUC.Money(ledgerUC.Amount(in.Amount))
		l := &domainLoan.Loan{
			ID:                 id.NewID32(),
			MemberID:           m.ID,
			VslaID:             m.VslaID,
			CycleID:            cycle.ID,
			MeetingID:          meetingID,
			PrincipalAmount:    amount,
			InterestRate:       cycle.InterestRate,
			DurationMonths:     in.DurationMonths,
			RemainingPrincipal: amount,
			RemainingInterest:  FlatInterest(amount, cycle.InterestRate, in.DurationMonths),
			Status:             domainLoan.StatusActive,
			IssuedDate:         now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Ledger.Create(ctx, &domainLedger.Transaction{
			ID:          id.NewID32(),
			TenantID:    m.TenantID,
			VslaID:      m.VslaID,
			CycleID:     cycle.ID,
			MemberID:    m.ID,
			MeetingID:   meetingID,
			Type:        domainLedger.TypeLoanIssue,
			Amount:      amount,
			Date:        now,
			Description: fmt.Sprintf("Loan disbursement %s", l.ID),
			RecordedBy:  c.Actor(),
		}); err != nil {
			return err
		}
		detail := fmt.Sprintf("Issued %.2f to %s for %d months at %.2f%%", amount, m.FullName(), l.DurationMonths, l.InterestRate)
		if err := r.Audit.Create(ctx, audit.New(m.TenantID, c.Actor(), audit.ActionLoanIssued, detail, now)); err != nil {
			return err
		}
		out, tenantID = l, m.TenantID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "loan issued", "tenant_id", tenantID, "actor", c.Actor(), "loan_id", out.ID, "amount", out.PrincipalAmount)
	u.notifier.Notify(tenantID)
	return toDTO(out), nil
}

// Repay posts a repayment. Overpayment is clamped, not rejected; only the
// positive settled parts produce ledger entries.
func (u *Usecase) Repay(ctx context.Context, c tenant.Caller, loanID string, in RepayLoanInput) (*LoanDTO, error) {
	if in.Principal < 0 || in.Interest < 0 || (in.Principal == 0 && in.Interest == 0) {
		return nil, domainLoan.ErrInvalidInput
	}
	now := u.now()
	var out *domainLoan.Loan
	var tenantID string

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		m, err := u.owner(ctx, r, c, l)
		if err != nil {
			return err
		}
		if l.Status != domainLoan.StatusActive {
			return fmt.Errorf("%w: status %s", domainLoan.ErrNotActive, l.Status)
		}

		cycleID := l.CycleID
		if cy, err := r.Vslas.ActiveCycle(ctx, l.VslaID); err == nil {
			cycleID = cy.ID
		} else if !errors.Is(err, vsla.ErrNoActiveCycle) {
			return err
		}

		paidP, paidI := Settle(l, in.Principal, in.Interest)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		post := func(t domainLedger.Type, amount float64, desc string) error {
			if amount <= 0 {
				return nil
			}
			return r.Ledger.Create(ctx, &domainLedger.Transaction{
				ID:          id.NewID32(),
				TenantID:    m.TenantID,
				VslaID:      l.VslaID,
				CycleID:     cycleID,
				MemberID:    l.MemberID,
				Type:        t,
				Amount:      amount,
				Date:        now,
				Description: desc,
				RecordedBy:  c.Actor(),
			})
		}
		if err := post(domainLedger.TypeLoanRepaymentPrincipal, paidP, "Principal repayment "+l.ID); err != nil {
			return err
		}
		if err := post(domainLedger.TypeLoanRepaymentInterest, paidI, "Interest repayment "+l.ID); err != nil {
			return err
		}

		detail := fmt.Sprintf("Repayment on %s by %s: principal %.2f, interest %.2f, status %s", l.ID, m.FullName(), paidP, paidI, l.Status)
		if err := r.Audit.Create(ctx, audit.New(m.TenantID, c.Actor(), audit.ActionLoanRepayment, detail, now)); err != nil {
			return err
		}
		out, tenantID = l, m.TenantID
		return nil
	})
	if err != nil {
		return nil, notFound(err, domainLoan.ErrNotFound)
	}

	u.log.InfoContext(ctx, "loan repayment posted", "tenant_id", tenantID, "actor", c.Actor(), "loan_id", out.ID, "status", out.Status)
	u.notifier.Notify(tenantID)
	return toDTO(out), nil
}

// MarkDefaulted is the administrative Active -> Defaulted transition.
func (u *Usecase) MarkDefaulted(ctx context.Context, c tenant.Caller, loanID string) (*LoanDTO, error) {
	now := u.now()
	var out *domainLoan.Loan
	var tenantID string

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		m, err := u.owner(ctx, r, c, l)
		if err != nil {
			return err
		}
		if !domainLoan.CanTransition(l.Status, domainLoan.StatusDefaulted) {
			return fmt.Errorf("%w: %s -> %s", domainLoan.ErrInvalidTransition, l.Status, domainLoan.StatusDefaulted)
		}
		l.Status = domainLoan.StatusDefaulted
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		detail := fmt.Sprintf("Loan %s of %s marked defaulted with %.2f outstanding", l.ID, m.FullName(), l.Remaining())
		if err := r.Audit.Create(ctx, audit.New(m.TenantID, c.Actor(), audit.ActionLoanDefault, detail, now)); err != nil {
			return err
		}
		out, tenantID = l, m.TenantID
		return nil
	})
	if err != nil {
		return nil, notFound(err, domainLoan.ErrNotFound)
	}

	u.log.InfoContext(ctx, "loan defaulted", "tenant_id", tenantID, "actor", c.Actor(), "loan_id", out.ID)
	u.notifier.Notify(tenantID)
	return toDTO(out), nil
}

func (u *Usecase) Get(ctx context.Context, c tenant.Caller, loanID string) (*LoanDTO, error) {
	var out *domainLoan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return notFound(err, domainLoan.ErrNotFound)
		}
		if _, err := u.owner(ctx, r, c, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDTO(out), nil
}

// Capacity reports a member's savings base and borrowing limit.
func (u *Usecase) Capacity(ctx context.Context, c tenant.Caller, memberID string) (*CapacityDTO, error) {
	var out *CapacityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := r.Members.GetByID(ctx, memberID)
		if err != nil {
			return notFound(err, member.ErrNotFound)
		}
		if !c.Owns(m.TenantID) {
			return tenant.ErrForbidden
		}
		snap, err := r.Store.Load(ctx)
		if err != nil {
			return err
		}
		txs := scope.Filter(snap, c).Vsla(m.VslaID).Transactions
		out = &CapacityDTO{MemberID: m.ID, Savings: ledgerUC.SavingsOf(txs, m.ID), Capacity: Capacity(txs, m.ID)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// owner resolves the borrower and checks the caller may act on the loan.
func (u *Usecase) owner(ctx context.Context, r uow.Repos, c tenant.Caller, l *domainLoan.Loan) (*member.Member, error) {
	m, err := r.Members.GetByID(ctx, l.MemberID)
	if err != nil {
		return nil, notFound(err, member.ErrNotFound)
	}
	if !c.Owns(m.TenantID) {
		return nil, tenant.ErrForbidden
	}
	return m, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
