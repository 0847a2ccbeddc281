package model

// Debt is an outstanding loan repaid in monthly installments.
type Debt struct {
	Name            string
	Principal       float64
	InterestRate    float64 // percent
	ExtraFees       float64
	Paid            float64 // derived from expense transactions
	MonthsRemaining int
}

// Key returns the normalized name of the debt.
func (d Debt) Key() Key {
	return NormalizeKey(d.Name)
}

// TotalDue is principal plus one period of simple interest plus fees.
func (d Debt) TotalDue() float64 {
	return d.Principal + d.Principal*d.InterestRate/100 + d.ExtraFees
}

// Installment is the flat monthly payment estimate for the debt. It is not
// an amortization; MonthsRemaining is guaranteed positive by the debt book.
func (d Debt) Installment() float64 {
	return d.TotalDue() / float64(d.MonthsRemaining)
}

// Remaining is the total due less what has been paid so far.
func (d Debt) Remaining() float64 {
	return d.TotalDue() - d.Paid
}
