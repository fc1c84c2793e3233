package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

const (
	trendWindow      = 3
	trendMaxPoints   = 12
	predictionMonths = 3
)

var seasonalWeight = decimal.RequireFromString("0.3")

type monthBucket struct {
	year, month int
	expenses    decimal.Decimal
	extra       decimal.Decimal
}

type trendPoint struct {
	expenses, income, balance decimal.Decimal
}

// AnalyzeTrends buckets history by month and forecasts the next three
// months from the last three, nudged by calendar-month seasonality.
func AnalyzeTrends(expenses []model.Expense, baseIncome decimal.Decimal, incomes []model.ExtraIncome, today time.Time) model.TrendReport {
	baseIncome = NonNegative(baseIncome)

	buckets := make(map[[2]int]*monthBucket)
	bucket := func(d time.Time) *monthBucket {
		k := [2]int{d.Year(), int(d.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &monthBucket{year: k[0], month: k[1]}
			buckets[k] = b
		}
		return b
	}
	for _, e := range expenses {
		if d, ok := ParseDate(e.Date); ok {
			b := bucket(d)
			b.expenses = b.expenses.Add(NonNegative(e.Amount))
		}
	}
	for _, in := range incomes {
		if d, ok := ParseDate(in.Date); ok {
			b := bucket(d)
			b.extra = b.extra.Add(NonNegative(in.Amount))
		}
	}

	ordered := make([]*monthBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].year != ordered[j].year {
			return ordered[i].year < ordered[j].year
		}
		return ordered[i].month < ordered[j].month
	})

	points := make([]trendPoint, 0, len(ordered)+trendWindow)
	for _, b := range ordered {
		income := baseIncome.Add(b.extra)
		points = append(points, trendPoint{expenses: b.expenses, income: income, balance: income.Sub(b.expenses)})
	}
	for len(points) < trendWindow {
		points = append(points, trendPoint{expenses: decimal.Zero, income: baseIncome, balance: baseIncome})
	}

	three := decimal.NewFromInt(trendWindow)
	var sumExp, sumInc decimal.Decimal
	for _, p := range points[len(points)-trendWindow:] {
		sumExp = sumExp.Add(p.expenses)
		sumInc = sumInc.Add(p.income)
	}
	avgExpenses := sumExp.Div(three)
	avgIncome := decimal.Max(baseIncome, sumInc.Div(three))

	seasonality := Seasonality(expenses)

	report := model.TrendReport{
		Seasonality: seasonality,
		Confidence:  confidenceFor(len(points)),
		HistoryLen:  len(points),
	}
	for i := 1; i <= predictionMonths; i++ {
		target := time.Date(today.Year(), today.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		seasonal := seasonality[target.Month()-1]
		exp := NonNegative(avgExpenses.Add(seasonal.Mul(seasonalWeight)))
		report.Predictions = append(report.Predictions, model.MonthPrediction{
			Year:     target.Year(),
			Month:    int(target.Month()),
			Expenses: exp.Round(2),
			Income:   avgIncome.Round(2),
			Balance:  avgIncome.Sub(exp).Round(2),
		})
	}

	expSeries := make([]decimal.Decimal, len(points))
	incSeries := make([]decimal.Decimal, len(points))
	balSeries := make([]decimal.Decimal, len(points))
	for i, p := range points {
		expSeries[i], incSeries[i], balSeries[i] = p.expenses, p.income, p.balance
	}
	report.ExpenseTrend = lastN(MovingAverage(expSeries, trendWindow), trendMaxPoints)
	report.IncomeTrend = lastN(MovingAverage(incSeries, trendWindow), trendMaxPoints)
	report.BalanceTrend = lastN(MovingAverage(balSeries, trendWindow), trendMaxPoints)
	return report
}

// Seasonality returns, per calendar month, the average amount of a single
// expense dated in that month across all years.
func Seasonality(expenses []model.Expense) [12]decimal.Decimal {
	var totals [12]decimal.Decimal
	var counts [12]int64
	for _, e := range expenses {
		d, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		i := d.Month() - 1
		totals[i] = totals[i].Add(NonNegative(e.Amount))
		counts[i]++
	}
	var out [12]decimal.Decimal
	for i := range out {
		if counts[i] > 0 {
			out[i] = totals[i].Div(decimal.NewFromInt(counts[i]))
		}
	}
	return out
}

// MovingAverage returns the trailing average over up to window points,
// rounded to cents.
func MovingAverage(values []decimal.Decimal, window int) []decimal.Decimal {
	if window < 1 {
		window = 1
	}
	out := make([]decimal.Decimal, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := decimal.Zero
		for _, v := range values[start : i+1] {
			sum = sum.Add(v)
		}
		out[i] = sum.Div(decimal.NewFromInt(int64(i + 1 - start))).Round(2)
	}
	return out
}

func confidenceFor(points int) model.Confidence {
	switch {
	case points < 6:
		return model.ConfidenceLow
	case points < 12:
		return model.ConfidenceMedium
	}
	return model.ConfidenceHigh
}

func lastN(values []decimal.Decimal, n int) []decimal.Decimal {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
