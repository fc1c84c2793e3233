package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Current cycle spend with end-of-cycle projection",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		r := pipeline.BuildCycleReport(snap, now)
		p := r.Projection

		fmt.Println()
		fmt.Println(cli.RenderTitle("CYCLE  " + cli.FormatRange(r.Cycle.Start, r.Cycle.End)))
		fmt.Println()

		rows := [][]string{
			{"Day", fmt.Sprintf("%d of %d", r.Cycle.ElapsedDays, r.Cycle.TotalDays)},
			{"Days left", cli.FormatDays(r.Cycle.RemainingDays)},
			{"---"},
			{"Salary", cli.FormatMoney(r.Salary)},
		}
		if !r.Deductions.IsZero() {
			rows = append(rows,
				[]string{"Advances", "-" + cli.FormatMoney(r.Deductions)},
				[]string{"Net salary", cli.FormatMoney(r.NetSalary)},
			)
		}
		rows = append(rows,
			[]string{"Spent", cli.FormatMoney(r.Spend.Total)},
			[]string{"Expenses", cli.FormatNumber(int64(r.Spend.Count))},
			[]string{"Used", cli.RenderSpendBar(r.PercentSpent, 20) + " " + cli.FormatPercent(r.PercentSpent)},
			[]string{"Remaining", cli.FormatMoney(r.NetSalary.Sub(r.Spend.Total))},
			[]string{"---"},
			[]string{"Daily average", cli.FormatMoney(p.DailyAverage) + "/day"},
			[]string{"Projected spend", cli.FormatMoney(p.ProjectedTotal)},
			[]string{"Projected balance", balance(p.FinalBalance.IsNegative(), cli.FormatMoney(p.FinalBalance))},
		)

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows:    rows,
		}))

		if p.WillOverspend {
			fmt.Printf("\n  %s\n", cli.Bad("At this pace you will overspend this cycle."))
		}
		if pending := snap.PendingAdvances(); len(pending) > 0 {
			fmt.Printf("  %s\n", cli.Warn(fmt.Sprintf("%d salary advance(s) pending confirmation.", len(pending))))
		}
		if len(snap.Expenses) == 0 {
			fmt.Println(cli.Muted("\n  No expenses yet. Add one with: paycycle expenses add"))
		}
		fmt.Println()
		return nil
	})
}

func balance(negative bool, s string) string {
	if negative {
		return cli.Bad(s)
	}
	return cli.Good(s)
}
