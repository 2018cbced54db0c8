package mysql

import (
	"context"
	"errors"
	"testing"

	"kitabu-backend/internal/domain/audit"
	ledgerDomain "kitabu-backend/internal/domain/ledger"
	loanDomain "kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/uow"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan("LN-COMMIT", "mem_1")); err != nil {
			return err
		}
		if err := r.Ledger.Create(ctx, &ledgerDomain.Transaction{ID: "TX-COMMIT", Type: ledgerDomain.TypeLoanIssue, Amount: 20000, Date: day}); err != nil {
			return err
		}
		return r.Audit.Create(ctx, audit.New("KYN0001", "u1", audit.ActionLoanIssued, "issued", day))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(ctx, "LN-COMMIT"); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := NewLedgerRepository(db).GetByID(ctx, "TX-COMMIT"); err != nil {
		t.Fatalf("transaction not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	sentinel := errors.New("boom")

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan("LN-ROLL", "mem_1")); err != nil {
			return err
		}
		if err := r.Ledger.Create(ctx, &ledgerDomain.Transaction{ID: "TX-ROLL", Type: ledgerDomain.TypeLoanIssue, Amount: 20000, Date: day}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(ctx, "LN-ROLL"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
	if _, err := NewLedgerRepository(db).GetByID(ctx, "TX-ROLL"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected transaction not found after rollback, got %v", err)
	}
	var n int64
	db.Model(&audit.Log{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no audit rows, got %d", n)
	}
}

func TestGormUoW_WithinLoanTx(t *testing.T) {
	tests := []struct {
		name       string
		fnErr      error
		wantStatus loanDomain.Status
	}{
		{name: "commit", wantStatus: loanDomain.StatusDefaulted},
		{name: "rollback", fnErr: errors.New("boom"), wantStatus: loanDomain.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			ctx := context.Background()
			repo := NewLoanRepository(db)
			if err := repo.Create(ctx, makeLoan("LN-TARGET", "mem_1")); err != nil {
				t.Fatalf("seed loan: %v", err)
			}

			err := NewGormUoW(db).WithinLoanTx(ctx, "LN-TARGET", func(r uow.Repos, l *loanDomain.Loan) error {
				if l == nil || l.ID != "LN-TARGET" || l.Status != loanDomain.StatusActive {
					t.Fatalf("unexpected loan passed to fn: %+v", l)
				}
				l.Status = loanDomain.StatusDefaulted
				if err := r.Loans.Save(ctx, l); err != nil {
					return err
				}
				return tt.fnErr
			})
			if !errors.Is(err, tt.fnErr) {
				t.Fatalf("err = %v, want %v", err, tt.fnErr)
			}

			got, err := repo.GetByLoanID(ctx, "LN-TARGET")
			if err != nil {
				t.Fatalf("GetByLoanID: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestGormUoW_WithinLoanTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	called := false
	err := NewGormUoW(db).WithinLoanTx(context.Background(), "missing", func(uow.Repos, *loanDomain.Loan) error {
		called = true
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run without the loan")
	}
}
