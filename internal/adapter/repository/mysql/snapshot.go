package mysql

import (
	"context"
	"fmt"

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

	"gorm.io/gorm"
)

const batchSize = 200

// Models lists every persisted table, parents first.
func Models() []any {
	return []any{
		&tenant.Tenant{}, &vsla.Vsla{}, &vsla.Cycle{}, &vsla.Meeting{}, &member.Member{},
		&loan.Loan{}, &ledger.Transaction{}, &expense.Expense{},
		&project.InvestmentProject{}, &project.Transaction{}, &partnership.Project{}, &audit.Log{},
	}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

type SnapshotRepository struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository { return &SnapshotRepository{db: db} }

func (r *SnapshotRepository) Load(ctx context.Context) (*store.Snapshot, error) {
	db := r.db.WithContext(ctx)
	s := &store.Snapshot{}
	loads := []struct {
		dest  any
		order string
	}{
		{&s.Tenants, "id ASC"},
		{&s.Vslas, "id ASC"},
		{&s.Cycles, "start_date ASC, id ASC"},
		{&s.Meetings, "date ASC, id ASC"},
		{&s.Members, "join_date ASC, member_ky_id ASC"},
		{&s.Loans, "issued_date ASC, id ASC"},
		{&s.Transactions, "date ASC, id ASC"},
		{&s.Expenses, "date ASC, id ASC"},
		{&s.InvestmentProjects, "start_date ASC, id ASC"},
		{&s.ProjectTransactions, "date ASC, id ASC"},
		{&s.PartnershipProjects, "created_at ASC, id ASC"},
		{&s.AuditLogs, "timestamp DESC, id ASC"},
	}
	for _, l := range loads {
		if err := db.Order(l.order).Find(l.dest).Error; err != nil {
			return nil, err
		}
	}
	return s.Normalize(), nil
}

// Replace deletes children before parents, then inserts parents first.
func (r *SnapshotRepository) Replace(ctx context.Context, s *store.Snapshot) error {
	s = s.Normalize()
	db := r.db.WithContext(ctx)
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", models[i], err)
		}
	}
	inserts := []error{
		insertAll(db, s.Tenants),
		insertAll(db, s.Vslas),
		insertAll(db, s.Cycles),
		insertAll(db, s.Meetings),
		insertAll(db, s.Members),
		insertAll(db, s.Loans),
		insertAll(db, s.Transactions),
		insertAll(db, s.Expenses),
		insertAll(db, s.InvestmentProjects),
		insertAll(db, s.ProjectTransactions),
		insertAll(db, s.PartnershipProjects),
		insertAll(db, s.AuditLogs),
	}
	for _, err := range inserts {
		if err != nil {
			return err
		}
	}
	return nil
}

// gorm rejects an empty slice.
func insertAll[T any](db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("insert %T: %w", rows, err)
	}
	return nil
}
