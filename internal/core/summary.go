package core

// Totals is the derived balance view over a transaction list.
type Totals struct {
	Income   Money `json:"totalIncome"`
	Expenses Money `json:"totalExpenses"`
	Balance  Money `json:"balance"`
}

// ComputeTotals recomputes totals from scratch on every call. The expected
// transaction count is personal-finance scale, so no incremental
// bookkeeping is kept.
func ComputeTotals(transactions []Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		switch tx.Type {
		case Income:
			t.Income = t.Income.Add(tx.Amount)
		case Expense:
			t.Expenses = t.Expenses.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}
