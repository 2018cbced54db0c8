package loan

import (
	domainLedger "kitabu-backend/internal/domain/ledger"
	domainLoan "kitabu-backend/internal/domain/loan"
	ledgerUC "kitabu-backend/internal/usecase/ledger"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Capacity is the most a member may borrow without an override.
func Capacity(txs []domainLedger.Transaction, memberID string) float64 {
	s := ledgerUC.Amount(ledgerUC.SavingsOf(txs, memberID))
	return ledgerUC.Money(s.Mul(decimal.NewFromInt(domainLoan.CapacityMultiplier)))
}

// FlatInterest is amount × rate% × months, never compounded.
func FlatInterest(amount, ratePercent float64, months int) float64 {
	d := ledgerUC.Amount(amount).
		Mul(ledgerUC.Amount(ratePercent)).
		Div(hundred).
		Mul(decimal.NewFromInt(int64(months)))
	return ledgerUC.Money(d)
}

// Settle applies a repayment to l, clamping each part to what is still
// owed, and returns the amounts actually taken. Negative parts count as 0.
// An active loan becomes Repaid once the remaining total is within
// domainLoan.RepaidThreshold.
func Settle(l *domainLoan.Loan, principal, interest float64) (paidPrincipal, paidInterest float64) {
	remP := nonNeg(ledgerUC.Amount(l.RemainingPrincipal))
	remI := nonNeg(ledgerUC.Amount(l.RemainingInterest))
	p := decimal.Min(nonNeg(ledgerUC.Amount(principal)), remP)
	i := decimal.Min(nonNeg(ledgerUC.Amount(interest)), remI)

	remP, remI = remP.Sub(p), remI.Sub(i)
	l.RemainingPrincipal = ledgerUC.Money(remP)
	l.RemainingInterest = ledgerUC.Money(remI)
	l.TotalPaidPrincipal = ledgerUC.Money(ledgerUC.Amount(l.TotalPaidPrincipal).Add(p))
	l.TotalPaidInterest = ledgerUC.Money(ledgerUC.Amount(l.TotalPaidInterest).Add(i))

	if l.Status == domainLoan.StatusActive &&
		remP.Add(remI).LessThanOrEqual(decimal.NewFromFloat(domainLoan.RepaidThreshold)) {
		l.Status = domainLoan.StatusRepaid
	}
	return ledgerUC.Money(p), ledgerUC.Money(i)
}

func nonNeg(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
