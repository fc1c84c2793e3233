package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Per-day spend in the current cycle",
	RunE:  runDaily,
}

var dailyAll bool

func init() {
	dailyCmd.Flags().BoolVar(&dailyAll, "all", false, "Include days without expenses")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		cycle := pipeline.ResolveCycle(now, snap.Config.Payday)
		from, to := pipeline.SpendWindow(cycle, now)
		days := pipeline.AggregateDays(snap.Expenses, from, to)

		fmt.Println()
		fmt.Println(cli.RenderTitle("DAILY SPEND  " + cli.FormatRange(cycle.Start, cycle.End)))
		fmt.Println()

		peak := 0.0
		for _, d := range days {
			peak = max(peak, d.Amount.InexactFloat64())
		}

		rows := make([][]string, 0, len(days))
		for _, d := range days {
			if d.Count == 0 && !dailyAll {
				continue
			}
			rows = append(rows, []string{
				d.Date.Format(model.DateLayout),
				cli.FormatDayOfWeek(int(d.Date.Weekday())),
				cli.FormatNumber(int64(d.Count)),
				cli.FormatMoney(d.Amount),
				cli.Muted(cli.RenderHorizontalBar(d.Amount.InexactFloat64(), peak, 20)),
			})
		}
		if len(rows) == 0 {
			fmt.Println("  No expenses in this cycle yet.")
			return nil
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Day", "Count", "Spent", ""},
			Rows:    rows,
		}))
		return nil
	})
}
