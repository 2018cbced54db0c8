// Package memstore is an in-memory uow.UnitOfWork for usecase tests.
// Each transaction works on a copy that replaces the committed state only
// when fn returns nil. Lookups that miss return gorm.ErrRecordNotFound like
// the gorm repositories do.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"kitabu-backend/internal/domain/audit"
	"kitabu-backend/internal/domain/expense"
	"kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/partnership"
	"kitabu-backend/internal/domain/project"
	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/uow"
	"kitabu-backend/internal/domain/vsla"

	"gorm.io/gorm"
)

var _ uow.UnitOfWork = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	snap *store.Snapshot
}

// New starts from s (or an empty store when nil).
func New(s *store.Snapshot) *Store {
	if s == nil {
		s = &store.Snapshot{}
	}
	return &Store{snap: clone(s.Normalize())}
}

// Snapshot returns a copy of the committed state.
func (m *Store) Snapshot() *store.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.snap)
}

func (m *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := clone(m.snap)
	if err := fn(repos(work)); err != nil {
		return err
	}
	m.snap = work
	return nil
}

func (m *Store) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return m.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

func repos(s *store.Snapshot) uow.Repos {
	d := &data{s: s}
	return uow.Repos{
		Tenants: tenants{d}, Vslas: vslas{d}, Members: members{d}, Ledger: txs{d},
		Loans: loans{d}, Expenses: expenses{d}, Projects: projects{d},
		Partnerships: partnerships{d}, Audit: audits{d}, Store: snapshots{d},
	}
}

type data struct{ s *store.Snapshot }

func clone(s *store.Snapshot) *store.Snapshot {
	return &store.Snapshot{
		Tenants:             append([]tenant.Tenant{}, s.Tenants...),
		Vslas:               append([]vsla.Vsla{}, s.Vslas...),
		Cycles:              append([]vsla.Cycle{}, s.Cycles...),
		Meetings:            append([]vsla.Meeting{}, s.Meetings...),
		Members:             append([]member.Member{}, s.Members...),
		Loans:               append([]loan.Loan{}, s.Loans...),
		Transactions:        append([]ledger.Transaction{}, s.Transactions...),
		Expenses:            append([]expense.Expense{}, s.Expenses...),
		InvestmentProjects:  append([]project.InvestmentProject{}, s.InvestmentProjects...),
		ProjectTransactions: append([]project.Transaction{}, s.ProjectTransactions...),
		PartnershipProjects: append([]partnership.Project{}, s.PartnershipProjects...),
		AuditLogs:           append([]audit.Log{}, s.AuditLogs...),
	}
}

func find[T any](in []T, match func(T) bool) (*T, error) {
	for _, x := range in {
		if match(x) {
			cp := x
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func upsert[T any](in []T, v T, same func(T) bool) []T {
	for i := range in {
		if same(in[i]) {
			in[i] = v
			return in
		}
	}
	return append(in, v)
}

type tenants struct{ d *data }

func (r tenants) Create(_ context.Context, t *tenant.Tenant) error {
	r.d.s.Tenants = append(r.d.s.Tenants, *t)
	return nil
}
func (r tenants) GetByID(_ context.Context, id string) (*tenant.Tenant, error) {
	return find(r.d.s.Tenants, func(t tenant.Tenant) bool { return t.ID == id })
}
func (r tenants) FindBySlugOrName(_ context.Context, ident string) (*tenant.Tenant, error) {
	return find(r.d.s.Tenants, func(t tenant.Tenant) bool {
		return strings.EqualFold(t.Slug, ident) || strings.EqualFold(t.Name, ident)
	})
}
func (r tenants) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, t := range r.d.s.Tenants {
		if strings.HasPrefix(t.ID, prefix) {
			n++
		}
	}
	return n, nil
}

type vslas struct{ d *data }

func (r vslas) Create(_ context.Context, v *vsla.Vsla) error {
	r.d.s.Vslas = append(r.d.s.Vslas, *v)
	return nil
}
func (r vslas) GetByID(_ context.Context, id string) (*vsla.Vsla, error) {
	return find(r.d.s.Vslas, func(v vsla.Vsla) bool { return v.ID == id })
}
func (r vslas) Save(_ context.Context, v *vsla.Vsla) error {
	r.d.s.Vslas = upsert(r.d.s.Vslas, *v, func(x vsla.Vsla) bool { return x.ID == v.ID })
	return nil
}
func (r vslas) Count(_ context.Context) (int64, error) { return int64(len(r.d.s.Vslas)), nil }
func (r vslas) CreateCycle(_ context.Context, c *vsla.Cycle) error {
	r.d.s.Cycles = append(r.d.s.Cycles, *c)
	return nil
}
func (r vslas) DeactivateCycles(_ context.Context, vslaID string) error {
	for i := range r.d.s.Cycles {
		if r.d.s.Cycles[i].VslaID == vslaID {
			r.d.s.Cycles[i].IsActive = false
		}
	}
	return nil
}
func (r vslas) ActiveCycle(_ context.Context, vslaID string) (*vsla.Cycle, error) {
	c, err := find(r.d.s.Cycles, func(c vsla.Cycle) bool { return c.VslaID == vslaID && c.IsActive })
	if err != nil {
		return nil, vsla.ErrNoActiveCycle
	}
	return c, nil
}

type members struct{ d *data }

func (r members) Create(_ context.Context, m *member.Member) error {
	r.d.s.Members = append(r.d.s.Members, *m)
	return nil
}
func (r members) GetByID(_ context.Context, id string) (*member.Member, error) {
	return find(r.d.s.Members, func(m member.Member) bool { return m.ID == id })
}
func (r members) FindByIdentity(_ context.Context, nationalID, phone string) (*member.Member, error) {
	return find(r.d.s.Members, func(m member.Member) bool {
		return (nationalID != "" && m.NationalID == nationalID) || (phone != "" && m.Phone == phone)
	})
}
func (r members) Count(_ context.Context) (int64, error) { return int64(len(r.d.s.Members)), nil }

type txs struct{ d *data }

func (r txs) Create(_ context.Context, t *ledger.Transaction) error {
	r.d.s.Transactions = append(r.d.s.Transactions, *t)
	return nil
}
func (r txs) GetByID(_ context.Context, id string) (*ledger.Transaction, error) {
	return find(r.d.s.Transactions, func(t ledger.Transaction) bool { return t.ID == id })
}
func (r txs) Save(_ context.Context, t *ledger.Transaction) error {
	r.d.s.Transactions = upsert(r.d.s.Transactions, *t, func(x ledger.Transaction) bool { return x.ID == t.ID })
	return nil
}

type loans struct{ d *data }

func (r loans) Create(_ context.Context, l *loan.Loan) error {
	r.d.s.Loans = append(r.d.s.Loans, *l)
	return nil
}
func (r loans) GetByLoanID(_ context.Context, id string) (*loan.Loan, error) {
	return find(r.d.s.Loans, func(l loan.Loan) bool { return l.ID == id })
}
func (r loans) GetByLoanIDForUpdate(ctx context.Context, id string) (*loan.Loan, error) {
	return r.GetByLoanID(ctx, id)
}
func (r loans) Save(_ context.Context, l *loan.Loan) error {
	r.d.s.Loans = upsert(r.d.s.Loans, *l, func(x loan.Loan) bool { return x.ID == l.ID })
	return nil
}

type expenses struct{ d *data }

func (r expenses) Create(_ context.Context, e *expense.Expense) error {
	r.d.s.Expenses = append(r.d.s.Expenses, *e)
	return nil
}
func (r expenses) GetByID(_ context.Context, id string) (*expense.Expense, error) {
	return find(r.d.s.Expenses, func(e expense.Expense) bool { return e.ID == id })
}
func (r expenses) GetByIDForUpdate(ctx context.Context, id string) (*expense.Expense, error) {
	return r.GetByID(ctx, id)
}
func (r expenses) Save(_ context.Context, e *expense.Expense) error {
	r.d.s.Expenses = upsert(r.d.s.Expenses, *e, func(x expense.Expense) bool { return x.ID == e.ID })
	return nil
}

type projects struct{ d *data }

func (r projects) Create(_ context.Context, p *project.InvestmentProject) error {
	r.d.s.InvestmentProjects = append(r.d.s.InvestmentProjects, *p)
	return nil
}
func (r projects) GetByID(_ context.Context, id string) (*project.InvestmentProject, error) {
	return find(r.d.s.InvestmentProjects, func(p project.InvestmentProject) bool { return p.ID == id })
}
func (r projects) CreateTransaction(_ context.Context, t *project.Transaction) error {
	r.d.s.ProjectTransactions = append(r.d.s.ProjectTransactions, *t)
	return nil
}
func (r projects) ListTransactions(_ context.Context, projectID string) ([]project.Transaction, error) {
	out := []project.Transaction{}
	for _, t := range r.d.s.ProjectTransactions {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

type partnerships struct{ d *data }

func (r partnerships) Create(_ context.Context, p *partnership.Project) error {
	r.d.s.PartnershipProjects = append(r.d.s.PartnershipProjects, *p)
	return nil
}
func (r partnerships) GetByIDForUpdate(_ context.Context, id string) (*partnership.Project, error) {
	return find(r.d.s.PartnershipProjects, func(p partnership.Project) bool { return p.ID == id })
}
func (r partnerships) Save(_ context.Context, p *partnership.Project) error {
	r.d.s.PartnershipProjects = upsert(r.d.s.PartnershipProjects, *p, func(x partnership.Project) bool { return x.ID == p.ID })
	return nil
}

type audits struct{ d *data }

func (r audits) Create(_ context.Context, l *audit.Log) error {
	r.d.s.AuditLogs = append([]audit.Log{*l}, r.d.s.AuditLogs...)
	return nil
}

type snapshots struct{ d *data }

func (r snapshots) Load(_ context.Context) (*store.Snapshot, error) {
	s := clone(r.d.s)
	sort.SliceStable(s.AuditLogs, func(i, j int) bool { return s.AuditLogs[i].Timestamp.After(s.AuditLogs[j].Timestamp) })
	return s, nil
}
func (r snapshots) Replace(_ context.Context, s *store.Snapshot) error {
	*r.d.s = *clone(s.Normalize())
	return nil
}
