package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Spending trends and a three-month forecast",
	RunE:  runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		r := pipeline.AnalyzeTrends(snap.Expenses, snap.Config.BaseSalary, snap.Incomes, now)

		fmt.Println()
		fmt.Println(cli.RenderTitle("TRENDS & FORECAST"))
		fmt.Println()
		fmt.Printf("  History:     %d months  (confidence %s)\n", r.HistoryLen, r.Confidence)
		fmt.Printf("  Expenses:    %s\n", cli.RenderSparkline(floats(r.ExpenseTrend)))
		fmt.Printf("  Income:      %s\n", cli.RenderSparkline(floats(r.IncomeTrend)))
		fmt.Printf("  Balance:     %s\n\n", cli.RenderSparkline(floats(r.BalanceTrend)))

		rows := make([][]string, 0, len(r.Predictions))
		for _, p := range r.Predictions {
			rows = append(rows, []string{
				fmt.Sprintf("%s %d", cli.FormatMonth(p.Month), p.Year),
				cli.FormatMoney(p.Income),
				cli.FormatMoney(p.Expenses),
				balance(p.Balance.IsNegative(), cli.FormatMoney(p.Balance)),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Forecast",
			Headers: []string{"Month", "Income", "Expenses", "Balance"},
			Rows:    rows,
		}))

		seasonal := make([][]string, 0, 12)
		for i, v := range r.Seasonality {
			if v.IsZero() {
				continue
			}
			seasonal = append(seasonal, []string{cli.FormatMonth(i + 1), cli.FormatMoney(v)})
		}
		if len(seasonal) > 0 {
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.Table{
				Title:   "Average Expense by Month",
				Headers: []string{"Month", "Avg expense"},
				Rows:    seasonal,
			}))
		}
		return nil
	})
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
