package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"kitabu-backend/internal/domain/audit"
	"kitabu-backend/internal/domain/expense"
	"kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/domain/loan"
	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/partnership"
	"kitabu-backend/internal/domain/project"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/vsla"
)

var ErrMalformed = errors.New("malformed snapshot")

// Snapshot is the whole persisted state, the unit of load and replication.
type Snapshot struct {
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

// Normalize replaces every missing collection with an empty one and keeps
// the audit log most recent first.
func (s *Snapshot) Normalize() *Snapshot {
	if s.Tenants == nil {
		s.Tenants = []tenant.Tenant{}
	}
	if s.Vslas == nil {
		s.Vslas = []vsla.Vsla{}
	}
	if s.Cycles == nil {
		s.Cycles = []vsla.Cycle{}
	}
	if s.Meetings == nil {
		s.Meetings = []vsla.Meeting{}
	}
	if s.Members == nil {
		s.Members = []member.Member{}
	}
	if s.Loans == nil {
		s.Loans = []loan.Loan{}
	}
	if s.Transactions == nil {
		s.Transactions = []ledger.Transaction{}
	}
	if s.Expenses == nil {
		s.Expenses = []expense.Expense{}
	}
	if s.InvestmentProjects == nil {
		s.InvestmentProjects = []project.InvestmentProject{}
	}
	if s.ProjectTransactions == nil {
		s.ProjectTransactions = []project.Transaction{}
	}
	if s.PartnershipProjects == nil {
		s.PartnershipProjects = []partnership.Project{}
	}
	if s.AuditLogs == nil {
		s.AuditLogs = []audit.Log{}
	}
	sort.SliceStable(s.AuditLogs, func(i, j int) bool {
		return s.AuditLogs[i].Timestamp.After(s.AuditLogs[j].Timestamp)
	})
	return s
}

// Empty reports whether nothing has ever been registered.
func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Tenants) == 0 && len(s.Vslas) == 0 && len(s.Members) == 0)
}

// Decode parses a persisted or remote snapshot. Only a JSON object is
// accepted; missing or null collections come back empty.
func Decode(raw []byte) (*Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return nil, fmt.Errorf("%w: expected object", ErrMalformed)
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s.Normalize(), nil
}
