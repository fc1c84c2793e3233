package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var salaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Show and manage salary, overrides and payday",
	RunE:  runSalaryShow,
}

var salaryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show salary settings for the year",
	RunE:  runSalaryShow,
}

var salarySetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the base salary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSalarySet,
}

var salaryOverrideCmd = &cobra.Command{
	Use:   "override <YYYY-MM> [amount]",
	Short: "Set or clear the salary for one month",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSalaryOverride,
}

var salaryPaydayCmd = &cobra.Command{
	Use:   "payday <day>",
	Short: "Set the payday day-of-month (1-31)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSalaryPayday,
}

var salaryHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Salary and payday change history",
	RunE:  runSalaryHistory,
}

var (
	salaryReason       string
	salaryApplyForward bool
	salaryFromMonth    string
	salaryClear        bool
)

func init() {
	salarySetCmd.Flags().StringVarP(&salaryReason, "reason", "r", "", "Reason recorded in the history")
	salarySetCmd.Flags().BoolVar(&salaryApplyForward, "apply-forward", false,
		"Also overwrite monthly overrides from --from through the end of next year")
	salarySetCmd.Flags().StringVar(&salaryFromMonth, "from", "", "First month YYYY-MM for --apply-forward (default current month)")

	salaryOverrideCmd.Flags().StringVarP(&salaryReason, "reason", "r", "", "Reason recorded in the history")
	salaryOverrideCmd.Flags().BoolVar(&salaryClear, "clear", false, "Remove the override, reverting to the base salary")

	salaryPaydayCmd.Flags().StringVarP(&salaryReason, "reason", "r", "", "Reason recorded in the history")

	salaryCmd.AddCommand(salaryShowCmd, salarySetCmd, salaryOverrideCmd, salaryPaydayCmd, salaryHistoryCmd)
	rootCmd.AddCommand(salaryCmd)
}

func runSalaryShow(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		cfg := snap.Config
		year := now.Year()

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("SALARY  %d", year)))
		fmt.Println()
		fmt.Printf("  Base salary:  %s\n", cli.FormatMoney(cfg.BaseSalary))
		fmt.Printf("  Payday:       day %d\n", cfg.Payday)
		fmt.Printf("  Year total:   %s\n\n", cli.FormatMoney(pipeline.YearlySalary(year, cfg)))

		rows := make([][]string, 0, 12)
		for m := 1; m <= 12; m++ {
			gross := pipeline.ResolveGross(m, year, cfg)
			ded := pipeline.DeductionsIn(m, year, snap.Deductions)
			source := cli.Muted("base")
			if _, ok := cfg.MonthlyOverrides[model.MonthKey(year, m)]; ok {
				source = "override"
			}
			dedStr := ""
			if !ded.IsZero() {
				dedStr = "-" + cli.FormatMoney(ded)
			}
			rows = append(rows, []string{
				cli.FormatMonth(m),
				cli.FormatMoney(gross),
				dedStr,
				cli.FormatMoney(gross.Sub(ded)),
				cli.FormatMoney(pipeline.TotalIncome(m, year, cfg, snap.Incomes)),
				source,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Month", "Gross", "Advances", "Net", "Gross + Extra", "Source"},
			Rows:    rows,
		}))
		return nil
	})
}

func runSalarySet(_ *cobra.Command, args []string) error {
	amount, err := parseMoney(args[0])
	if err != nil {
		return err
	}
	now, err := today()
	if err != nil {
		return err
	}
	month, year := int(now.Month()), now.Year()
	if salaryFromMonth != "" {
		m, err := time.Parse("2006-01", salaryFromMonth)
		if err != nil {
			return fmt.Errorf("invalid --from %q: want YYYY-MM", salaryFromMonth)
		}
		month, year = int(m.Month()), m.Year()
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		cfg, err := st.SalaryConfig(ctx)
		if err != nil {
			return err
		}
		prev := cfg.BaseSalary

		entry := pipeline.NewHistoryEntry(prev, amount, month, year, salaryReason, time.Now())
		change := store.SalaryChange{Base: &amount, History: []model.SalaryHistoryEntry{entry}}
		if salaryApplyForward {
			change.Overrides = pipeline.ForwardOverrides(month, year, amount)
		}
		if err := st.ApplySalaryChange(ctx, change); err != nil {
			return err
		}

		fmt.Printf("  Base salary %s -> %s  (%s %s)\n",
			cli.FormatMoney(prev), cli.FormatMoney(amount),
			entry.Type, cli.FormatSignedPercent(entry.PercentChange))
		if salaryApplyForward {
			fmt.Printf("  Applied from %s %d through December %d\n", cli.FormatMonth(month), year, year+1)
		}
		return nil
	})
}

func runSalaryOverride(_ *cobra.Command, args []string) error {
	m, err := time.Parse("2006-01", args[0])
	if err != nil {
		return fmt.Errorf("invalid month %q: want YYYY-MM", args[0])
	}
	month, year := int(m.Month()), m.Year()

	if salaryClear {
		return withStore(func(ctx context.Context, st *store.Store) error {
			if err := st.DeleteOverride(ctx, year, month); err != nil {
				return err
			}
			fmt.Printf("  Cleared override for %s\n", m.Format("January 2006"))
			return nil
		})
	}
	if len(args) < 2 {
		return errors.New("amount required (or pass --clear)")
	}
	amount, err := parseMoney(args[1])
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		cfg, err := st.SalaryConfig(ctx)
		if err != nil {
			return err
		}
		prev := pipeline.ResolveGross(month, year, cfg)
		entry := pipeline.NewHistoryEntry(prev, amount, month, year, salaryReason, time.Now())
		err = st.ApplySalaryChange(ctx, store.SalaryChange{
			Overrides: map[string]decimal.Decimal{model.MonthKey(year, month): amount},
			History:   []model.SalaryHistoryEntry{entry},
		})
		if err != nil {
			return err
		}
		fmt.Printf("  %s salary %s -> %s\n", m.Format("January 2006"), cli.FormatMoney(prev), cli.FormatMoney(amount))
		return nil
	})
}

func runSalaryPayday(_ *cobra.Command, args []string) error {
	day, err := strconv.Atoi(args[0])
	if err != nil || day < 1 || day > 31 {
		return fmt.Errorf("invalid payday %q: want 1-31", args[0])
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		cfg, err := st.SalaryConfig(ctx)
		if err != nil {
			return err
		}
		err = st.ApplySalaryChange(ctx, store.SalaryChange{
			Payday:  &day,
			History: []model.SalaryHistoryEntry{pipeline.NewPaydayEntry(cfg.Payday, day, salaryReason, time.Now())},
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Payday %d -> %d\n", cfg.Payday, day)
		return nil
	})
}

func runSalaryHistory(_ *cobra.Command, _ []string) error {
	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		if len(snap.History) == 0 {
			fmt.Println("\n  No salary changes recorded.")
			return nil
		}
		history := append([]model.SalaryHistoryEntry(nil), snap.History...)
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Date.After(history[j].Date)
		})

		fmt.Println()
		fmt.Println(cli.RenderTitle("SALARY HISTORY"))
		fmt.Println()

		rows := make([][]string, 0, len(history))
		for _, h := range history {
			prev, next := cli.FormatMoney(h.PreviousValue), cli.FormatMoney(h.NewValue)
			if h.Type == model.ChangePaydayUpdate {
				prev, next = "day "+h.PreviousValue.String(), "day "+h.NewValue.String()
			}
			rows = append(rows, []string{
				h.Date.Local().Format("2006-01-02"),
				fmt.Sprintf("%s %d", cli.FormatMonth(h.Month), h.Year),
				string(h.Type),
				prev,
				next,
				cli.FormatSignedPercent(h.PercentChange),
				cli.Truncate(h.Reason, 24),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Changed", "Effective", "Type", "From", "To", "Change", "Reason"},
			Rows:    rows,
		}))
		return nil
	})
}
