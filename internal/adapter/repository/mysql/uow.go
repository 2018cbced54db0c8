package mysql

import (
	"context"
	"sync"

	"kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// GormUoW runs one transaction at a time in-process; sqlite has no row locks.
type GormUoW struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func bind(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Tenants:      &TenantRepository{db: tx},
		Vslas:        &VslaRepository{db: tx},
		Members:      &MemberRepository{db: tx},
		Ledger:       &LedgerRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Expenses:     &ExpenseRepository{db: tx},
		Projects:     &ProjectRepository{db: tx},
		Partnerships: &PartnershipRepository{db: tx},
		Audit:        &AuditRepository{db: tx},
		Store:        &SnapshotRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := bind(tx)
		// lock the loan row up-front
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
