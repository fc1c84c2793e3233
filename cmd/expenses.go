package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/spf13/cobra"
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"exp"},
	Short:   "List and manage expenses",
	RunE:    runExpensesList,
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, newest first",
	RunE:  runExpensesList,
}

var expensesAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Record an expense",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExpensesAdd,
}

var expensesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesEdit,
}

var expensesRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete an expense",
	Args:    cobra.ExactArgs(1),
	RunE:    runExpensesRm,
}

var (
	expensesLimit    int
	expensesMonth    string
	expensesCategory string

	expenseAmount      string
	expenseDate        string
	expenseCategory    string
	expenseDescription string
)

func init() {
	for _, c := range []*cobra.Command{expensesCmd, expensesListCmd} {
		c.Flags().IntVarP(&expensesLimit, "limit", "l", 20, "Number of expenses to show (0 for all)")
		c.Flags().StringVar(&expensesMonth, "month", "", "Only expenses in month YYYY-MM")
		c.Flags().StringVarP(&expensesCategory, "category", "c", "", "Only expenses in this category")
	}

	expensesAddCmd.Flags().StringVarP(&expenseAmount, "amount", "a", "", "Amount spent")
	expensesAddCmd.Flags().StringVar(&expenseDate, "date", "", "Date YYYY-MM-DD (default today)")
	expensesAddCmd.Flags().StringVarP(&expenseCategory, "category", "c", "", "Category (default Other)")
	_ = expensesAddCmd.MarkFlagRequired("amount")

	expensesEditCmd.Flags().StringVarP(&expenseAmount, "amount", "a", "", "New amount")
	expensesEditCmd.Flags().StringVar(&expenseDate, "date", "", "New date YYYY-MM-DD")
	expensesEditCmd.Flags().StringVarP(&expenseCategory, "category", "c", "", "New category")
	expensesEditCmd.Flags().StringVarP(&expenseDescription, "description", "d", "", "New description")

	expensesCmd.AddCommand(expensesListCmd, expensesAddCmd, expensesEditCmd, expensesRmCmd)
	rootCmd.AddCommand(expensesCmd)
}

func runExpensesList(_ *cobra.Command, _ []string) error {
	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		expenses := append([]model.Expense(nil), snap.Expenses...)

		if expensesMonth != "" {
			m, err := time.Parse("2006-01", expensesMonth)
			if err != nil {
				return fmt.Errorf("invalid --month %q: want YYYY-MM", expensesMonth)
			}
			from, to := pipeline.MonthRange(m.Year(), m.Month())
			expenses = pipeline.FilterByRange(expenses, from, to)
		}
		if expensesCategory != "" {
			want := config.NormalizeCategory(expensesCategory)
			kept := expenses[:0]
			for _, e := range expenses {
				if e.CategoryOrOther() == want {
					kept = append(kept, e)
				}
			}
			expenses = kept
		}

		if len(expenses) == 0 {
			fmt.Println("\n  No expenses found.")
			return nil
		}

		sort.SliceStable(expenses, func(i, j int) bool {
			if expenses[i].Date != expenses[j].Date {
				return expenses[i].Date > expenses[j].Date
			}
			return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
		})
		total := len(expenses)
		if expensesLimit > 0 && len(expenses) > expensesLimit {
			expenses = expenses[:expensesLimit]
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("EXPENSES  showing %d of %d", len(expenses), total)))
		fmt.Println()

		rows := make([][]string, 0, len(expenses))
		for _, e := range expenses {
			rows = append(rows, []string{
				shortID(e.ID),
				e.Date,
				cli.Truncate(e.Description, 28),
				e.CategoryOrOther(),
				cli.FormatMoney(e.Amount),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"ID", "Date", "Description", "Category", "Amount"},
			Rows:    rows,
		}))
		return nil
	})
}

func runExpensesAdd(_ *cobra.Command, args []string) error {
	amount, err := parseMoney(expenseAmount)
	if err != nil {
		return err
	}
	date := expenseDate
	if date == "" {
		if date, err = todayString(); err != nil {
			return err
		}
	} else if date, err = parseDateArg(date); err != nil {
		return err
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		e, err := st.AddExpense(ctx, model.Expense{
			Description: strings.Join(args, " "),
			Amount:      amount,
			Date:        date,
			Category:    config.NormalizeCategory(expenseCategory),
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Added %s  %s  %s  (%s)\n", shortID(e.ID), e.Date, cli.FormatMoney(e.Amount), e.Category)
		return nil
	})
}

func runExpensesEdit(cmd *cobra.Command, args []string) error {
	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		id, err := matchID(args[0], expenseIDs(snap.Expenses))
		if err != nil {
			return err
		}
		e, err := st.GetExpense(ctx, id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("amount") {
			if e.Amount, err = parseMoney(expenseAmount); err != nil {
				return err
			}
		}
		if flags.Changed("date") {
			if e.Date, err = parseDateArg(expenseDate); err != nil {
				return err
			}
		}
		if flags.Changed("category") {
			e.Category = config.NormalizeCategory(expenseCategory)
		}
		if flags.Changed("description") {
			e.Description = expenseDescription
		}

		if err := st.UpdateExpense(ctx, e); err != nil {
			return err
		}
		fmt.Printf("  Updated %s  %s  %s  %s\n", shortID(e.ID), e.Date, e.Description, cli.FormatMoney(e.Amount))
		return nil
	})
}

func runExpensesRm(_ *cobra.Command, args []string) error {
	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		id, err := matchID(args[0], expenseIDs(snap.Expenses))
		if err != nil {
			return err
		}
		if err := st.DeleteExpense(ctx, id); err != nil {
			return err
		}
		fmt.Printf("  Deleted %s\n", shortID(id))
		return nil
	})
}

func expenseIDs(expenses []model.Expense) []string {
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	return ids
}

var errAmbiguousID = errors.New("ambiguous id prefix")

// matchID resolves an ID or unique ID prefix against ids.
func matchID(prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", store.ErrNotFound
	}
	var found string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if found != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousID, prefix)
			}
			found = id
		}
	}
	if found == "" {
		return "", fmt.Errorf("%s: %w", prefix, store.ErrNotFound)
	}
	return found, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
