package uow

import (
	"context"

	"kitabu-backend/internal/domain/audit"
	"kitabu-backend/internal/domain/expense"
	"kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/partnership"
	"kitabu-backend/internal/domain/project"
	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/vsla"
)

// Repos are bound to one transaction.
type Repos struct {
	Tenants      tenant.Repository
	Vslas        vsla.Repository
	Members      member.Repository
	Ledger       ledger.Repository
	Loans        loan.Repository
	Expenses     expense.Repository
	Projects     project.Repository
	Partnerships partnership.Repository
	Audit        audit.Repository
	Store        store.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}

// Notifier is told after every committed mutation.
type Notifier interface {
	Notify(tenantID string)
}

type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
