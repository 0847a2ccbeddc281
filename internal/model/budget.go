package model

// Budget is a spending limit for one category.
type Budget struct {
	Category string
	Limit    float64
	// Spent is derived from the ledger during reconciliation.
	Spent float64
}

// Key returns the normalized category of the budget.
func (b Budget) Key() Key {
	return NormalizeKey(b.Category)
}

// Exceeded reports whether spend is strictly above the limit.
func (b Budget) Exceeded() bool {
	return b.Spent > b.Limit
}

// Remaining is the limit minus spend; negative once the budget is exceeded.
func (b Budget) Remaining() float64 {
	return b.Limit - b.Spent
}
