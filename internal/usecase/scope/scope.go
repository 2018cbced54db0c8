// Package scope narrows a store snapshot to what one caller may see.
package scope

import (
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

// View holds the collections visible to a caller. Every slice is non-nil.
type View struct {
	Tenants             []tenant.Tenant             `json:"tenants"`
	Vslas               []vsla.Vsla                 `json:"vslas"`
	Cycles              []vsla.Cycle                `json:"cycles"`
	Meetings            []vsla.Meeting              `json:"meetings"`
	Members             []member.Member             `json:"members"`
	Loans               []loan.Loan                 `json:"loans"`
	Transactions        []ledger.Transaction        `json:"transactions"`
	Expenses            []expense.Expense           `json:"expenses"`
	InvestmentProjects  []project.InvestmentProject `json:"investment_projects"`
	ProjectTransactions []project.Transaction       `json:"project_transactions"`
	PartnershipProjects []partnership.Project       `json:"partnership_projects"`
	AuditLogs           []audit.Log                 `json:"audit_logs"`
}

// Filter applies tenant isolation. Super admins see everything; a caller
// with no tenant sees nothing. Records without a tenant field are reached
// through their VSLA or project.
func Filter(s *store.Snapshot, c tenant.Caller) View {
	if s == nil {
		s = &store.Snapshot{}
	}
	s.Normalize()
	if c.IsSuperAdmin() {
		return View{
			Tenants: s.Tenants, Vslas: s.Vslas, Cycles: s.Cycles, Meetings: s.Meetings,
			Members: s.Members, Loans: s.Loans, Transactions: s.Transactions, Expenses: s.Expenses,
			InvestmentProjects: s.InvestmentProjects, ProjectTransactions: s.ProjectTransactions,
			PartnershipProjects: s.PartnershipProjects, AuditLogs: s.AuditLogs,
		}
	}
	tid := c.TenantID
	if tid == "" {
		return empty()
	}

	v := View{
		Tenants:             where(s.Tenants, func(t tenant.Tenant) bool { return t.ID == tid }),
		Vslas:               where(s.Vslas, func(x vsla.Vsla) bool { return x.TenantID == tid }),
		Members:             where(s.Members, func(m member.Member) bool { return m.TenantID == tid }),
		Transactions:        where(s.Transactions, func(t ledger.Transaction) bool { return t.TenantID == tid }),
		PartnershipProjects: where(s.PartnershipProjects, func(p partnership.Project) bool { return p.TenantID == tid }),
		AuditLogs:           where(s.AuditLogs, func(l audit.Log) bool { return l.TenantID == tid }),
	}
	return v.joinVslas(s)
}

// Vsla narrows an already scoped view to a single group.
func (v View) Vsla(vslaID string) View {
	out := View{
		Tenants:             v.Tenants,
		Vslas:               where(v.Vslas, func(x vsla.Vsla) bool { return x.ID == vslaID }),
		Members:             where(v.Members, func(m member.Member) bool { return m.VslaID == vslaID }),
		Transactions:        where(v.Transactions, func(t ledger.Transaction) bool { return t.VslaID == vslaID }),
		PartnershipProjects: where(v.PartnershipProjects, func(p partnership.Project) bool { return p.VslaID == vslaID }),
		AuditLogs:           v.AuditLogs,
	}
	src := &store.Snapshot{
		Cycles: v.Cycles, Meetings: v.Meetings, Loans: v.Loans, Expenses: v.Expenses,
		InvestmentProjects: v.InvestmentProjects, ProjectTransactions: v.ProjectTransactions,
	}
	return out.joinVslas(src)
}

// joinVslas fills the VSLA-keyed collections from s using v.Vslas.
func (v View) joinVslas(s *store.Snapshot) View {
	ids := make(map[string]struct{}, len(v.Vslas))
	for _, x := range v.Vslas {
		ids[x.ID] = struct{}{}
	}
	in := func(id string) bool { _, ok := ids[id]; return ok }

	v.Cycles = where(s.Cycles, func(c vsla.Cycle) bool { return in(c.VslaID) })
	v.Meetings = where(s.Meetings, func(m vsla.Meeting) bool { return in(m.VslaID) })
	v.Loans = where(s.Loans, func(l loan.Loan) bool { return in(l.VslaID) })
	v.Expenses = where(s.Expenses, func(e expense.Expense) bool { return in(e.VslaID) })
	v.InvestmentProjects = where(s.InvestmentProjects, func(p project.InvestmentProject) bool { return in(p.VslaID) })

	pids := make(map[string]struct{}, len(v.InvestmentProjects))
	for _, p := range v.InvestmentProjects {
		pids[p.ID] = struct{}{}
	}
	v.ProjectTransactions = where(s.ProjectTransactions, func(t project.Transaction) bool {
		_, ok := pids[t.ProjectID]
		return ok
	})
	return v
}

func empty() View {
	return View{
		Tenants: []tenant.Tenant{}, Vslas: []vsla.Vsla{}, Cycles: []vsla.Cycle{}, Meetings: []vsla.Meeting{},
		Members: []member.Member{}, Loans: []loan.Loan{}, Transactions: []ledger.Transaction{},
		Expenses: []expense.Expense{}, InvestmentProjects: []project.InvestmentProject{},
		ProjectTransactions: []project.Transaction{}, PartnershipProjects: []partnership.Project{},
		AuditLogs: []audit.Log{},
	}
}

func where[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, x := range in {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}
