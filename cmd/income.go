package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/spf13/cobra"
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Extra income on top of salary",
	RunE:  runIncomeList,
}

var incomeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extra income",
	RunE:  runIncomeList,
}

var incomeAddCmd = &cobra.Command{
	Use:   "add <amount> [description]",
	Short: "Record extra income",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIncomeAdd,
}

var incomeRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an extra income entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeRm,
}

var incomeDate string

func init() {
	incomeAddCmd.Flags().StringVar(&incomeDate, "date", "", "Date YYYY-MM-DD (default today)")

	incomeCmd.AddCommand(incomeListCmd, incomeAddCmd, incomeRmCmd)
	rootCmd.AddCommand(incomeCmd)
}

func runIncomeList(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		if len(snap.Incomes) == 0 {
			fmt.Println("\n  No extra income recorded.")
			return nil
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("EXTRA INCOME"))
		fmt.Println()

		rows := make([][]string, 0, len(snap.Incomes)+2)
		for _, in := range snap.Incomes {
			rows = append(rows, []string{
				shortID(in.ID),
				in.Date,
				cli.Truncate(in.Description, 30),
				cli.FormatMoney(in.Amount),
			})
		}
		year := now.Year()
		rows = append(rows,
			[]string{"---"},
			[]string{fmt.Sprintf("%d total", year), "", "", cli.FormatMoney(pipeline.IncomeInYear(year, snap.Incomes))},
		)
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"ID", "Date", "Description", "Amount"},
			Rows:    rows,
		}))
		return nil
	})
}

func runIncomeAdd(_ *cobra.Command, args []string) error {
	amount, err := parseMoney(args[0])
	if err != nil {
		return err
	}
	date, err := dateOrToday(incomeDate)
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		in, err := st.AddIncome(ctx, model.ExtraIncome{
			Amount:      amount,
			Description: strings.Join(args[1:], " "),
			Date:        date,
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Added income %s  %s  %s\n", shortID(in.ID), in.Date, cli.FormatMoney(in.Amount))
		return nil
	})
}

func runIncomeRm(_ *cobra.Command, args []string) error {
	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		ids := make([]string, len(snap.Incomes))
		for i, in := range snap.Incomes {
			ids[i] = in.ID
		}
		id, err := matchID(args[0], ids)
		if err != nil {
			return err
		}
		if err := st.DeleteIncome(ctx, id); err != nil {
			return err
		}
		fmt.Printf("  Deleted income %s\n", shortID(id))
		return nil
	})
}
