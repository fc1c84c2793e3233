package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialGoal is a savings target with a deadline.
type FinancialGoal struct {
	ID            string
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      string
	CreatedAt     time.Time
}

// GoalProgress holds derived progress for one goal.
type GoalProgress struct {
	Goal      FinancialGoal
	Percent   float64 // capped at 100
	Remaining decimal.Decimal
	DaysLeft  int
	Completed bool
	Overdue   bool
}
