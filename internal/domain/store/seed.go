package store

import (
	"time"

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

const (
	SeedTenantID = "KYN0001"
	SeedVslaID   = "KYV001"
	SeedCycleID  = "c_1"
)

// Seed is the first-launch demo state: one NGO, one active VSLA with an
// open cycle at 10% and two officers.
func Seed(now time.Time) *Snapshot {
	now = now.UTC()
	year := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end := year.AddDate(1, 0, -1)
	return &Snapshot{
		Tenants: []tenant.Tenant{{
			ID: SeedTenantID, Slug: "global-impact", Name: "Global Impact NGO", Kind: tenant.KindNGO,
			Email: "admin@globalimpact.org", Country: "Kenya", County: "Nairobi",
			Constituency: "Westlands", Ward: "Parklands",
			SmsGateway: "AfricasTalking", SmsBalance: 500, CreatedAt: now,
		}},
		Vslas: []vsla.Vsla{{
			ID: SeedVslaID, TenantID: SeedTenantID, Name: "Sunshine Savings", InviteCode: "SUN-NAK-001",
			Country: "Kenya", County: "Nakuru", Constituency: "Nakuru Town East", Ward: "Biashara",
			Village: "Sunshine", Status: vsla.StatusActive, HasInvestmentModule: true, RegisteredAt: now,
		}},
		Cycles: []vsla.Cycle{{
			ID: SeedCycleID, VslaID: SeedVslaID, Name: "Cycle 2024 - Alpha",
			StartDate: year, EndDate: &end, SharePrice: 200, InterestRate: 10, IsActive: true, CreatedAt: now,
		}},
		Members: []member.Member{
			{
				ID: "mem_1", MemberKyID: "KYM0001", TenantID: SeedTenantID, VslaID: SeedVslaID,
				FirstName: "Alice", LastName: "Wanjiru", Phone: "0711111111", NationalID: "12345678",
				Role: member.GroupRoleTreasurer, Gender: member.GenderFemale, Status: member.StatusActive, JoinDate: year,
			},
			{
				ID: "mem_2", MemberKyID: "KYM0002", TenantID: SeedTenantID, VslaID: SeedVslaID,
				FirstName: "Bob", LastName: "Ochieng", Phone: "0722222222", NationalID: "87654321",
				Role: member.GroupRoleChair, Gender: member.GenderMale, Status: member.StatusActive, JoinDate: year,
			},
		},
		Meetings:            []vsla.Meeting{},
		Loans:               []loan.Loan{},
		Transactions:        []ledger.Transaction{},
		Expenses:            []expense.Expense{},
		InvestmentProjects:  []project.InvestmentProject{},
		ProjectTransactions: []project.Transaction{},
		PartnershipProjects: []partnership.Project{},
		AuditLogs:           []audit.Log{},
	}
}
