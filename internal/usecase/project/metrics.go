package project

import (
	domainProject "kitabu-backend/internal/domain/project"
	ledgerUC "kitabu-backend/internal/usecase/ledger"

	"github.com/shopspring/decimal"
)

// Compute derives income, expense, profit and ROI percent over capital.
// ROI is 0 when the project has no capital cost.
func Compute(capitalCost float64, txs []domainProject.Transaction) Metrics {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case domainProject.TxIncome:
			income = income.Add(ledgerUC.Amount(t.Amount))
		case domainProject.TxExpense:
			expense = expense.Add(ledgerUC.Amount(t.Amount))
		}
	}
	profit := income.Sub(expense)
	m := Metrics{
		Income:  ledgerUC.Money(income),
		Expense: ledgerUC.Money(expense),
		Profit:  ledgerUC.Money(profit),
	}
	if capital := ledgerUC.Amount(capitalCost); capital.IsPositive() {
		m.ROI = ledgerUC.Money(profit.Div(capital).Mul(decimal.NewFromInt(100)))
	}
	return m
}
