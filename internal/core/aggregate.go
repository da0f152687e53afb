package core

// Totals holds the derived sums over a sequence of transactions.
type Totals struct {
	Debit   float64
	Credit  float64
	Monnaie float64
	Balance float64
}

// Aggregate sums the three amount columns and derives the balance as
// debit - credit + monnaie. In this register the débit column records
// money paid out of the cash box for which the holder is owed
// reimbursement, so it contributes positively. The convention predates
// this implementation and is part of the contract.
//
// Aggregate is pure and is recomputed from current state on every use;
// results are never cached across mutations.
func Aggregate(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		t.Debit += tx.Debit
		t.Credit += tx.Credit
		t.Monnaie += tx.Monnaie
	}
	t.Balance = t.Debit - t.Credit + t.Monnaie
	return t
}
