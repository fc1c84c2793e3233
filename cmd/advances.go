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

var advancesCmd = &cobra.Command{
	Use:   "advances",
	Short: "Salary advances: request, confirm and list",
	RunE:  runAdvancesList,
}

var advancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List salary advances",
	RunE:  runAdvancesList,
}

var advancesRequestCmd = &cobra.Command{
	Use:   "request <amount>",
	Short: "Record a pending salary advance",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvancesRequest,
}

var advancesConfirmCmd = &cobra.Command{
	Use:   "confirm <id>",
	Short: "Mark an advance received and deduct it from that month's salary",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvancesConfirm,
}

var advancesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the amount or expected date of a pending advance",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvancesEdit,
}

var advancesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an advance and its deduction",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvancesRm,
}

var (
	advanceExpected string
	advanceReceived string
	advanceAmount   string
)

func init() {
	advancesRequestCmd.Flags().StringVar(&advanceExpected, "expected", "", "Expected date YYYY-MM-DD (default today)")
	advancesConfirmCmd.Flags().StringVar(&advanceReceived, "date", "", "Date received YYYY-MM-DD (default today)")
	advancesEditCmd.Flags().StringVarP(&advanceAmount, "amount", "a", "", "New amount")
	advancesEditCmd.Flags().StringVar(&advanceExpected, "expected", "", "New expected date YYYY-MM-DD")

	advancesCmd.AddCommand(advancesListCmd, advancesRequestCmd, advancesConfirmCmd, advancesEditCmd, advancesRmCmd)
	rootCmd.AddCommand(advancesCmd)
}

func runAdvancesList(_ *cobra.Command, _ []string) error {
	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		if len(snap.Advances) == 0 {
			fmt.Println("\n  No salary advances.")
			return nil
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("SALARY ADVANCES"))
		fmt.Println()

		rows := make([][]string, 0, len(snap.Advances))
		for _, a := range snap.Advances {
			status := cli.Warn(string(a.Status))
			if a.Status == model.AdvanceReceived {
				status = cli.Good(string(a.Status))
			}
			rows = append(rows, []string{
				shortID(a.ID),
				a.RequestedAt.Local().Format(model.DateLayout),
				a.ExpectedDate,
				a.ReceivedAt,
				status,
				cli.FormatMoney(a.Amount),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"ID", "Requested", "Expected", "Received", "Status", "Amount"},
			Rows:    rows,
		}))
		return nil
	})
}

func runAdvancesRequest(_ *cobra.Command, args []string) error {
	amount, err := parseMoney(args[0])
	if err != nil {
		return err
	}
	expected, err := dateOrToday(advanceExpected)
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		a, err := st.RequestAdvance(ctx, model.SalaryAdvance{Amount: amount, ExpectedDate: expected})
		if err != nil {
			return err
		}
		fmt.Printf("  Requested advance %s of %s, expected %s\n", shortID(a.ID), cli.FormatMoney(a.Amount), a.ExpectedDate)
		return nil
	})
}

func runAdvancesConfirm(_ *cobra.Command, args []string) error {
	received, err := dateOrToday(advanceReceived)
	if err != nil {
		return err
	}

	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		id, err := matchID(args[0], advanceIDs(snap.Advances))
		if err != nil {
			return err
		}
		d, err := st.ConfirmAdvance(ctx, id, received)
		if err != nil {
			return err
		}
		fmt.Printf("  Confirmed %s: %s deducted from %s salary\n",
			shortID(id), cli.FormatMoney(d.Amount), received[:7])
		return nil
	})
}

func runAdvancesEdit(cmd *cobra.Command, args []string) error {
	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		id, err := matchID(args[0], advanceIDs(snap.Advances))
		if err != nil {
			return err
		}
		var a model.SalaryAdvance
		for _, adv := range snap.Advances {
			if adv.ID == id {
				a = adv
			}
		}
		if a.Status == model.AdvanceReceived {
			return fmt.Errorf("advance %s: %w", shortID(id), store.ErrAlreadyReceived)
		}

		flags := cmd.Flags()
		if flags.Changed("amount") {
			if a.Amount, err = parseMoney(advanceAmount); err != nil {
				return err
			}
		}
		if flags.Changed("expected") {
			if a.ExpectedDate, err = parseDateArg(advanceExpected); err != nil {
				return err
			}
		}

		if err := st.UpdateAdvance(ctx, a); err != nil {
			return err
		}
		fmt.Printf("  Updated advance %s: %s expected %s\n", shortID(id), cli.FormatMoney(a.Amount), a.ExpectedDate)
		return nil
	})
}

func runAdvancesRm(_ *cobra.Command, args []string) error {
	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		id, err := matchID(args[0], advanceIDs(snap.Advances))
		if err != nil {
			return err
		}
		if err := st.DeleteAdvance(ctx, id); err != nil {
			return err
		}
		fmt.Printf("  Deleted advance %s\n", shortID(id))
		return nil
	})
}

func advanceIDs(advances []model.SalaryAdvance) []string {
	ids := make([]string, len(advances))
	for i, a := range advances {
		ids[i] = a.ID
	}
	return ids
}

// dateOrToday parses s as a civil date, defaulting to today when empty.
func dateOrToday(s string) (string, error) {
	if s == "" {
		return todayString()
	}
	return parseDateArg(s)
}
