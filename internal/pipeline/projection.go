package pipeline

import (
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

var (
	historicalFactor = decimal.NewFromInt(2)
	salaryFactor     = decimal.RequireFromString("0.8")
	volatilityFactor = decimal.NewFromInt(3)
)

// DailyAverage returns spent per elapsed day, or 0 when no day has elapsed.
func DailyAverage(spent decimal.Decimal, elapsedDays int) decimal.Decimal {
	if elapsedDays <= 0 {
		return decimal.Zero
	}
	return NonNegative(spent).Div(decimal.NewFromInt(int64(elapsedDays)))
}

// Project extrapolates end-of-cycle spend. The linear estimate
// dailyAverage*remainingDays is capped by the smallest of:
//
//	historical: spent * 2
//	salary:     max(0, salary - spent) * 0.8
//	volatility: dailyAverage * 3 * remainingDays
func Project(spent, dailyAverage decimal.Decimal, remainingDays int, salary decimal.Decimal) model.Projection {
	spent = NonNegative(spent)
	dailyAverage = NonNegative(dailyAverage)
	if remainingDays < 0 {
		remainingDays = 0
	}
	remaining := decimal.NewFromInt(int64(remainingDays))

	p := model.Projection{
		DailyAverage:  dailyAverage,
		Naive:         dailyAverage.Mul(remaining),
		HistoricalCap: spent.Mul(historicalFactor),
		SalaryCap:     NonNegative(salary.Sub(spent)).Mul(salaryFactor),
		VolatilityCap: dailyAverage.Mul(volatilityFactor).Mul(remaining),
	}

	p.ProjectedAdditional = NonNegative(decimal.Min(p.Naive, p.HistoricalCap, p.SalaryCap, p.VolatilityCap))
	p.ProjectedTotal = spent.Add(p.ProjectedAdditional)
	p.WillOverspend = p.ProjectedTotal.GreaterThan(salary)
	p.FinalBalance = salary.Sub(p.ProjectedTotal)
	return p
}

// BuildCycleReport resolves the cycle containing today and computes its
// spend, salary and projection. The cycle is funded by the salary of the
// month it starts in, net of that month's deductions.
func BuildCycleReport(snap Snapshot, today time.Time) model.CycleReport {
	cycle := ResolveCycle(today, snap.Config.Payday)
	from, to := SpendWindow(cycle, today)
	spend := Aggregate(snap.Expenses, from, to)

	month, year := int(cycle.Start.Month()), cycle.Start.Year()
	gross := ResolveGross(month, year, snap.Config)
	deductions := DeductionsIn(month, year, snap.Deductions)
	net := gross.Sub(deductions)

	avg := DailyAverage(spend.Total, cycle.ElapsedDays)
	return model.CycleReport{
		Today:        DateOf(today),
		Cycle:        cycle,
		WindowEnd:    to,
		Spend:        spend,
		Salary:       gross,
		Deductions:   deductions,
		NetSalary:    net,
		Projection:   Project(spend.Total, avg, cycle.RemainingDays, net),
		PercentSpent: Percent(spend.Total, net),
	}
}
