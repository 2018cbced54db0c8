package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/uow"

	"gorm.io/gorm"
)

func TestWithinTx_RollbackOnError(t *testing.T) {
	m := New(store.Seed(time.Now()))
	ctx := context.Background()
	boom := errors.New("boom")

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, &loan.Loan{ID: "L1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if n := len(m.Snapshot().Loans); n != 0 {
		t.Fatalf("rolled back write visible: %d loans", n)
	}
}

func TestWithinLoanTx_NotFound(t *testing.T) {
	m := New(nil)
	err := m.WithinLoanTx(context.Background(), "nope", func(uow.Repos, *loan.Loan) error { return nil })
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	m := New(store.Seed(time.Now()))
	ctx := context.Background()
	_ = m.WithinTx(ctx, func(r uow.Repos) error {
		mem, err := r.Members.GetByID(ctx, "mem_1")
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		mem.FirstName = "changed"
		return nil
	})
	if m.Snapshot().Members[0].FirstName != "Alice" {
		t.Fatal("mutation without Save leaked into the store")
	}
}

func TestNotifications(t *testing.T) {
	var n Notifications
	n.Notify("a")
	n.Notify("b")
	if got := n.Tenants(); len(got) != 2 || got[1] != "b" {
		t.Fatalf("tenants = %v", got)
	}
}
