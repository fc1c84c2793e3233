package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "Spend by category, largest first",
	RunE:    runCategories,
}

var categoriesMonth string

func init() {
	categoriesCmd.Flags().StringVar(&categoriesMonth, "month", "", "Calendar month YYYY-MM instead of the current cycle")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		var from, to time.Time
		title := "CATEGORIES  "
		if categoriesMonth != "" {
			m, err := time.Parse("2006-01", categoriesMonth)
			if err != nil {
				return fmt.Errorf("invalid --month %q: want YYYY-MM", categoriesMonth)
			}
			from, to = pipeline.MonthRange(m.Year(), m.Month())
			title += m.Format("January 2006")
		} else {
			cycle := pipeline.ResolveCycle(now, snap.Config.Payday)
			from, to = pipeline.SpendWindow(cycle, now)
			title += cli.FormatRange(cycle.Start, cycle.End)
		}

		spend := pipeline.Aggregate(snap.Expenses, from, to)
		ranked := pipeline.RankCategories(spend)

		fmt.Println()
		fmt.Println(cli.RenderTitle(title))
		fmt.Println()

		if len(ranked) == 0 {
			fmt.Println("  No expenses in this period.")
			return nil
		}

		rows := make([][]string, 0, len(ranked)+2)
		for _, c := range ranked {
			info := config.LookupCategory(c.Category)
			rows = append(rows, []string{
				info.Icon + " " + c.Category,
				cli.FormatMoney(c.Amount),
				cli.FormatPercent(c.SharePercent),
				cli.Muted(cli.RenderHorizontalBar(c.SharePercent, 100, 20)),
			})
		}
		rows = append(rows, []string{"---"}, []string{"Total", cli.FormatMoney(spend.Total), "100.0%", ""})

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Category", "Amount", "Share", ""},
			Rows:    rows,
		}))
		return nil
	})
}
