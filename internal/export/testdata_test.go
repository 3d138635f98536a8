package export

import (
	"time"

	"financeflow/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleDataset returns a small dataset covering every record type,
// including a description with a comma to exercise CSV quoting.
func sampleDataset() Dataset {
	return Dataset{
		Transactions: []core.TransactionDetail{
			{
				Transaction: core.Transaction{
					ID:          1,
					Amount:      core.Money{Cents: 1250},
					Description: "Coffee, extra shot",
					CategoryID:  3,
					Type:        core.Expense,
					Date:        day(2025, 6, 15),
				},
				CategoryName: "Food & Dining",
			},
			{
				Transaction: core.Transaction{
					ID:          2,
					Amount:      core.Money{Cents: 250000},
					Description: "Salary",
					CategoryID:  7,
					Type:        core.Income,
					Date:        day(2025, 6, 1),
				},
				CategoryName: "Income",
			},
		},
		Categories: []core.Category{
			{ID: 3, Name: "Food & Dining", Color: "FF5722", Icon: "restaurant", IsDefault: true},
			{ID: 7, Name: "Income", Color: "4CAF50", Icon: "payments", IsDefault: true},
		},
		Budgets: []core.BudgetDetail{
			{
				Budget: core.Budget{
					ID:          1,
					CategoryID:  3,
					Amount:      core.Money{Cents: 50000},
					PeriodStart: day(2025, 6, 1),
					PeriodEnd:   day(2025, 6, 30),
				},
				CategoryName:   "Food & Dining",
				SpentCents:     38000,
				RemainingCents: 12000,
				PercentageUsed: 76,
			},
		},
		Goals: []core.Goal{
			{
				ID:            1,
				Name:          "Emergency fund",
				TargetAmount:  core.Money{Cents: 1000000},
				CurrentAmount: core.Money{Cents: 250000},
				Deadline:      day(2025, 12, 31),
			},
		},
	}
}
