package ledger

import (
	"math"

	domainExpense "kitabu-backend/internal/domain/expense"
	domainLedger "kitabu-backend/internal/domain/ledger"
	domainLoan "kitabu-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

// Summary is the derived financial position of a scoped ledger.
type Summary struct {
	Savings                  float64 `json:"savings"`
	Disbursed                float64 `json:"disbursed"`
	RepaidPrincipal          float64 `json:"repaid_principal"`
	EarnedInterest           float64 `json:"earned_interest"`
	Fines                    float64 `json:"fines"`
	Fees                     float64 `json:"fees"`
	Welfare                  float64 `json:"welfare"`
	Dividends                float64 `json:"dividends"`
	TotalApprovedExpenses    float64 `json:"total_approved_expenses"`
	OutstandingLoanPrincipal float64 `json:"outstanding_loan_principal"`
	TotalInflow              float64 `json:"total_inflow"`
	TotalOutflow             float64 `json:"total_outflow"`
	// AvailableCash is floored at zero; Deficit carries the shortfall.
	AvailableCash float64 `json:"available_cash"`
	Deficit       float64 `json:"deficit"`
}

// Summarize reduces scoped records into a Summary. Voided transactions are
// ignored. It has no side effects.
func Summarize(txs []domainLedger.Transaction, exps []domainExpense.Expense, loans []domainLoan.Loan) Summary {
	by := make(map[domainLedger.Type]decimal.Decimal, 9)
	for _, t := range txs {
		if t.IsSoftDeleted {
			continue
		}
		by[t.Type] = by[t.Type].Add(Amount(t.Amount))
	}

	approved := decimal.Zero
	for _, e := range exps {
		if e.Status == domainExpense.StatusApproved {
			approved = approved.Add(Amount(e.Amount))
		}
	}
	outstanding := decimal.Zero
	for _, l := range loans {
		if l.Status == domainLoan.StatusActive {
			outstanding = outstanding.Add(Amount(l.RemainingPrincipal))
		}
	}

	savings := by[domainLedger.TypeSavings].Add(by[domainLedger.TypeSharePurchase])
	inflow := savings.
		Add(by[domainLedger.TypeLoanRepaymentPrincipal]).
		Add(by[domainLedger.TypeLoanRepaymentInterest]).
		Add(by[domainLedger.TypeFine]).
		Add(by[domainLedger.TypeRegistrationFee]).
		Add(by[domainLedger.TypeWelfareContribution])
	outflow := by[domainLedger.TypeLoanIssue].Add(approved).Add(by[domainLedger.TypeDividendPayout])
	net := inflow.Sub(outflow)

	s := Summary{
		Savings:                  Money(savings),
		Disbursed:                Money(by[domainLedger.TypeLoanIssue]),
		RepaidPrincipal:          Money(by[domainLedger.TypeLoanRepaymentPrincipal]),
		EarnedInterest:           Money(by[domainLedger.TypeLoanRepaymentInterest]),
		Fines:                    Money(by[domainLedger.TypeFine]),
		Fees:                     Money(by[domainLedger.TypeRegistrationFee]),
		Welfare:                  Money(by[domainLedger.TypeWelfareContribution]),
		Dividends:                Money(by[domainLedger.TypeDividendPayout]),
		TotalApprovedExpenses:    Money(approved),
		OutstandingLoanPrincipal: Money(outstanding),
		TotalInflow:              Money(inflow),
		TotalOutflow:             Money(outflow),
	}
	if net.IsNegative() {
		s.Deficit = Money(net.Neg())
	} else {
		s.AvailableCash = Money(net)
	}
	return s
}

// SavingsOf sums a member's savings and share purchases.
func SavingsOf(txs []domainLedger.Transaction, memberID string) float64 {
	sum := decimal.Zero
	for _, t := range txs {
		if t.IsSoftDeleted || t.MemberID != memberID {
			continue
		}
		if t.Type == domainLedger.TypeSavings || t.Type == domainLedger.TypeSharePurchase {
			sum = sum.Add(Amount(t.Amount))
		}
	}
	return Money(sum)
}

// Amount converts a stored value, treating NaN and infinities as zero.
func Amount(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Money rounds to cents.
func Money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
