package core

// TransactionDetail is a transaction joined with its category, the shape
// handed to clients and to the export pipeline.
type TransactionDetail struct {
	Transaction
	CategoryName  string
	CategoryColor string
}

// BudgetDetail is a budget with its derived utilization figures joined
// in. Spent/remaining/percentage are computed at read time, never stored.
type BudgetDetail struct {
	Budget
	CategoryName   string
	SpentCents     int64
	RemainingCents int64
	PercentageUsed float64
}
