package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cycle is a salary cycle: payday up to the day before the next payday.
// Day counts are inclusive.
type Cycle struct {
	Start         time.Time
	End           time.Time
	TotalDays     int
	ElapsedDays   int
	RemainingDays int
}

// SpendSummary holds spend totals over a date range.
type SpendSummary struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
	Categories []string // first-encountered order
	Count      int
}

// CategoryTotal is one ranked category row.
type CategoryTotal struct {
	Category     string
	Amount       decimal.Decimal
	SharePercent float64
}

// DailySpend holds spend for a single calendar day.
type DailySpend struct {
	Date   time.Time
	Amount decimal.Decimal
	Count  int
}

// Projection is the clamped end-of-cycle spend forecast.
type Projection struct {
	DailyAverage        decimal.Decimal
	Naive               decimal.Decimal
	HistoricalCap       decimal.Decimal
	SalaryCap           decimal.Decimal
	VolatilityCap       decimal.Decimal
	ProjectedAdditional decimal.Decimal
	ProjectedTotal      decimal.Decimal
	WillOverspend       bool
	FinalBalance        decimal.Decimal
}

// CycleReport is everything the dashboard shows for the current cycle.
type CycleReport struct {
	Today        time.Time
	Cycle        Cycle
	WindowEnd    time.Time
	Spend        SpendSummary
	Salary       decimal.Decimal
	Deductions   decimal.Decimal
	NetSalary    decimal.Decimal
	Projection   Projection
	PercentSpent float64
}

// MonthSummary is one calendar month of the annual report.
type MonthSummary struct {
	Month              int
	TotalExpense       decimal.Decimal
	Salary             decimal.Decimal
	Balance            decimal.Decimal
	PercentOfSalary    float64
	ExpensesByCategory map[string]decimal.Decimal
	ExtraIncome        decimal.Decimal
	TotalIncome        decimal.Decimal // Salary plus ExtraIncome
}

// AnnualReport holds twelve month summaries and the year totals.
type AnnualReport struct {
	Year                     int
	Months                   [12]MonthSummary
	AnnualExpense            decimal.Decimal
	AnnualSalary             decimal.Decimal
	AnnualBalance            decimal.Decimal
	AnnualPercentOfSalary    float64
	AnnualExpensesByCategory map[string]decimal.Decimal
	CategoryRanking          []CategoryTotal
	ExtraIncome              decimal.Decimal
	AnnualTotalIncome        decimal.Decimal
}

// Confidence grades a forecast by how much history backs it.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// MonthPrediction is one forward month of the trend forecast.
type MonthPrediction struct {
	Year     int
	Month    int
	Expenses decimal.Decimal
	Income   decimal.Decimal
	Balance  decimal.Decimal
}

// TrendReport is the predictive analysis over monthly history.
type TrendReport struct {
	Predictions  []MonthPrediction
	Seasonality  [12]decimal.Decimal // average expense amount per calendar month
	ExpenseTrend []decimal.Decimal
	IncomeTrend  []decimal.Decimal
	BalanceTrend []decimal.Decimal
	Confidence   Confidence
	HistoryLen   int
}
