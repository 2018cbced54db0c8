package ledger

import (
	"math"
	"reflect"
	"testing"

	domainExpense "kitabu-backend/internal/domain/expense"
	domainLedger "kitabu-backend/internal/domain/ledger"
	domainLoan "kitabu-backend/internal/domain/loan"
)

func tx(t domainLedger.Type, amount float64) domainLedger.Transaction {
	return domainLedger.Transaction{Type: t, Amount: amount, MemberID: "m1"}
}

func TestSummarize_Formulas(t *testing.T) {
	txs := []domainLedger.Transaction{
		tx(domainLedger.TypeSavings, 1000),
		tx(domainLedger.TypeSharePurchase, 400),
		tx(domainLedger.TypeLoanIssue, 600),
		tx(domainLedger.TypeLoanRepaymentPrincipal, 100),
		tx(domainLedger.TypeLoanRepaymentInterest, 30),
		tx(domainLedger.TypeFine, 20),
		tx(domainLedger.TypeRegistrationFee, 50),
		tx(domainLedger.TypeWelfareContribution, 10),
		tx(domainLedger.TypeDividendPayout, 90),
	}
	exps := []domainExpense.Expense{
		{Amount: 70, Status: domainExpense.StatusApproved},
		{Amount: 500, Status: domainExpense.StatusRejected},
		{Amount: 300, Status: domainExpense.StatusPendingApproval},
	}
	loans := []domainLoan.Loan{
		{RemainingPrincipal: 500, Status: domainLoan.StatusActive},
		{RemainingPrincipal: 999, Status: domainLoan.StatusDefaulted},
	}

	got := Summarize(txs, exps, loans)
	want := Summary{
		Savings: 1400, Disbursed: 600, RepaidPrincipal: 100, EarnedInterest: 30,
		Fines: 20, Fees: 50, Welfare: 10, Dividends: 90,
		TotalApprovedExpenses: 70, OutstandingLoanPrincipal: 500,
		TotalInflow: 1610, TotalOutflow: 760, AvailableCash: 850,
	}
	if got != want {
		t.Fatalf("Summarize =\n%+v\nwant\n%+v", got, want)
	}
}

func TestSummarize_ClampsDeficit(t *testing.T) {
	got := Summarize([]domainLedger.Transaction{
		tx(domainLedger.TypeSavings, 100),
		tx(domainLedger.TypeLoanIssue, 250),
	}, []domainExpense.Expense{{Amount: 25, Status: domainExpense.StatusApproved}}, nil)
	if got.AvailableCash != 0 {
		t.Fatalf("available cash = %v, want 0", got.AvailableCash)
	}
	if got.Deficit != 175 {
		t.Fatalf("deficit = %v, want 175", got.Deficit)
	}
}

func TestSummarize_NeverNegative(t *testing.T) {
	amounts := []float64{0, 0.01, 1, 99.99, 1e6}
	for _, in := range amounts {
		for _, out := range amounts {
			for _, exp := range amounts {
				s := Summarize(
					[]domainLedger.Transaction{tx(domainLedger.TypeSavings, in), tx(domainLedger.TypeLoanIssue, out)},
					[]domainExpense.Expense{{Amount: exp, Status: domainExpense.StatusApproved}},
					nil,
				)
				if s.AvailableCash < 0 || s.Deficit < 0 {
					t.Fatalf("negative figure for in=%v out=%v exp=%v: %+v", in, out, exp, s)
				}
			}
		}
	}
}

func TestSummarize_IgnoresVoidedAndBadAmounts(t *testing.T) {
	voided := tx(domainLedger.TypeSavings, 5000)
	voided.IsSoftDeleted = true
	got := Summarize([]domainLedger.Transaction{
		voided,
		tx(domainLedger.TypeSavings, math.NaN()),
		tx(domainLedger.TypeSavings, math.Inf(1)),
		tx(domainLedger.TypeSavings, 10),
	}, nil, nil)
	if got.Savings != 10 || got.AvailableCash != 10 {
		t.Fatalf("got %+v", got)
	}
}

func TestSummarize_Pure(t *testing.T) {
	txs := []domainLedger.Transaction{tx(domainLedger.TypeSavings, 0.1), tx(domainLedger.TypeSavings, 0.2)}
	a := Summarize(txs, nil, nil)
	b := Summarize(txs, nil, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("not deterministic: %+v vs %+v", a, b)
	}
	if a.Savings != 0.3 {
		t.Fatalf("decimal sum = %v, want 0.3", a.Savings)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil, nil, nil); got != (Summary{}) {
		t.Fatalf("empty summary = %+v", got)
	}
}

func TestSavingsOf_OnlySavingsAndShares(t *testing.T) {
	other := tx(domainLedger.TypeSavings, 777)
	other.MemberID = "m2"
	voided := tx(domainLedger.TypeSharePurchase, 300)
	voided.IsSoftDeleted = true
	txs := []domainLedger.Transaction{
		tx(domainLedger.TypeSavings, 6000),
		tx(domainLedger.TypeSharePurchase, 4000),
		tx(domainLedger.TypeFine, 50),
		tx(domainLedger.TypeLoanIssue, 9000),
		tx(domainLedger.TypeWelfareContribution, 20),
		other,
		voided,
	}
	if got := SavingsOf(txs, "m1"); got != 10000 {
		t.Fatalf("SavingsOf = %v, want 10000", got)
	}
}
