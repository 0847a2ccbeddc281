package model

import "sort"

// PriorityEntry pairs a debt with its current installment for ranking.
// Entries are rebuilt from the debt book on every request.
type PriorityEntry struct {
	Debt        Debt
	Installment float64
	Rank        int
}

// PriorityEntries is a ranked view of debts.
type PriorityEntries []PriorityEntry

// NewPriorityEntries builds entries for debts in the given order and ranks
// them by installment, highest first. Equal installments keep input order.
func NewPriorityEntries(debts []Debt) PriorityEntries {
	entries := make(PriorityEntries, len(debts))
	for i, d := range debts {
		entries[i] = PriorityEntry{Debt: d, Installment: d.Installment()}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Installment > entries[j].Installment
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Top returns the highest-priority entry, or nil if there are no debts.
func (p PriorityEntries) Top() *PriorityEntry {
	if len(p) == 0 {
		return nil
	}
	return &p[0]
}

// TotalInstallments sums the monthly installments of every entry.
func (p PriorityEntries) TotalInstallments() float64 {
	var total float64
	for _, e := range p {
		total += e.Installment
	}
	return total
}
