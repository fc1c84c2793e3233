package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var annualCmd = &cobra.Command{
	Use:   "annual",
	Short: "Month-by-month spend against salary for a year",
	RunE:  runAnnual,
}

var annualYear int

func init() {
	annualCmd.Flags().IntVarP(&annualYear, "year", "y", 0, "Year to report (default current year)")
	rootCmd.AddCommand(annualCmd)
}

func runAnnual(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}
	year := annualYear
	if year == 0 {
		year = now.Year()
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		r := pipeline.BuildAnnualReportAt(year, snap, now)

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("ANNUAL REPORT  %d", year)))
		fmt.Println()

		rows := make([][]string, 0, 14)
		for _, m := range r.Months {
			rows = append(rows, []string{
				cli.FormatMonth(m.Month),
				cli.FormatMoney(m.Salary),
				cli.FormatMoney(m.TotalExpense),
				balance(m.Balance.IsNegative(), cli.FormatMoney(m.Balance)),
				cli.FormatPercent(m.PercentOfSalary),
				extraCell(m.ExtraIncome),
			})
		}
		rows = append(rows,
			[]string{"---"},
			[]string{
				"Total",
				cli.FormatMoney(r.AnnualSalary),
				cli.FormatMoney(r.AnnualExpense),
				balance(r.AnnualBalance.IsNegative(), cli.FormatMoney(r.AnnualBalance)),
				cli.FormatPercent(r.AnnualPercentOfSalary),
				extraCell(r.ExtraIncome),
			},
		)
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Month", "Salary", "Spent", "Balance", "% Salary", "Extra"},
			Rows:    rows,
		}))

		if !r.ExtraIncome.IsZero() {
			fmt.Printf("\n  Extra income: %s  (total income %s, not counted in the balance)\n",
				cli.FormatMoney(r.ExtraIncome), cli.FormatMoney(r.AnnualTotalIncome))
		}

		if len(r.CategoryRanking) > 0 {
			fmt.Println()
			catRows := make([][]string, 0, len(r.CategoryRanking))
			for _, c := range r.CategoryRanking {
				catRows = append(catRows, []string{c.Category, cli.FormatMoney(c.Amount), cli.FormatPercent(c.SharePercent)})
			}
			fmt.Print(cli.RenderTable(cli.Table{
				Title:   "By Category",
				Headers: []string{"Category", "Amount", "Share"},
				Rows:    catRows,
			}))
		}

		years := pipeline.AvailableYears(snap.Expenses, snap.Config, now)
		labels := make([]string, len(years))
		for i, y := range years {
			labels[i] = strconv.Itoa(y)
		}
		fmt.Println(cli.Muted("\n  Years with data: " + strings.Join(labels, ", ")))
		return nil
	})
}

func extraCell(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return "+" + cli.FormatMoney(d)
}
