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

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Savings goals and progress",
	RunE:  runGoalsList,
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress",
	RunE:  runGoalsList,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a savings goal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGoalsAdd,
}

var goalsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a goal's saved amount, target, deadline or title",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsUpdate,
}

var goalsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsRm,
}

var (
	goalTarget   string
	goalCurrent  string
	goalDeadline string
	goalTitle    string
	goalDeposit  string
)

func init() {
	goalsAddCmd.Flags().StringVarP(&goalTarget, "target", "t", "", "Target amount")
	goalsAddCmd.Flags().StringVar(&goalCurrent, "saved", "0", "Amount already saved")
	goalsAddCmd.Flags().StringVar(&goalDeadline, "deadline", "", "Deadline YYYY-MM-DD")
	_ = goalsAddCmd.MarkFlagRequired("target")
	_ = goalsAddCmd.MarkFlagRequired("deadline")

	goalsUpdateCmd.Flags().StringVarP(&goalTarget, "target", "t", "", "New target amount")
	goalsUpdateCmd.Flags().StringVar(&goalCurrent, "saved", "", "New saved amount")
	goalsUpdateCmd.Flags().StringVar(&goalDeposit, "deposit", "", "Add this amount to the saved total")
	goalsUpdateCmd.Flags().StringVar(&goalDeadline, "deadline", "", "New deadline YYYY-MM-DD")
	goalsUpdateCmd.Flags().StringVar(&goalTitle, "title", "", "New title")
	goalsUpdateCmd.MarkFlagsMutuallyExclusive("saved", "deposit")

	goalsCmd.AddCommand(goalsListCmd, goalsAddCmd, goalsUpdateCmd, goalsRmCmd)
	rootCmd.AddCommand(goalsCmd)
}

func runGoalsList(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		if len(snap.Goals) == 0 {
			fmt.Println("\n  No goals yet. Create one with: paycycle goals add")
			return nil
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("GOALS"))
		fmt.Println()

		rows := make([][]string, 0, len(snap.Goals))
		for _, g := range snap.Goals {
			p := pipeline.GoalProgress(g, now)
			due := cli.FormatDays(p.DaysLeft)
			switch {
			case p.Completed:
				due = cli.Good("done")
			case p.Overdue:
				due = cli.Bad(fmt.Sprintf("%s overdue", cli.FormatDays(-p.DaysLeft)))
			}
			rows = append(rows, []string{
				shortID(g.ID),
				cli.Truncate(g.Title, 24),
				cli.FormatMoney(g.CurrentAmount) + " / " + cli.FormatMoney(g.TargetAmount),
				cli.Good(cli.RenderHorizontalBar(p.Percent, 100, 12)) + " " + cli.FormatPercent(p.Percent),
				g.Deadline,
				due,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"ID", "Goal", "Saved", "Progress", "Deadline", "Due"},
			Rows:    rows,
		}))
		return nil
	})
}

func runGoalsAdd(_ *cobra.Command, args []string) error {
	target, err := parseMoney(goalTarget)
	if err != nil {
		return err
	}
	current, err := parseMoney(goalCurrent)
	if err != nil {
		return err
	}
	deadline, err := parseDateArg(goalDeadline)
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		g, err := st.AddGoal(ctx, model.FinancialGoal{
			Title:         strings.Join(args, " "),
			TargetAmount:  target,
			CurrentAmount: current,
			Deadline:      deadline,
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Added goal %s  %s  target %s by %s\n", shortID(g.ID), g.Title, cli.FormatMoney(g.TargetAmount), g.Deadline)
		return nil
	})
}

func runGoalsUpdate(cmd *cobra.Command, args []string) error {
	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		ids := make([]string, len(snap.Goals))
		for i, g := range snap.Goals {
			ids[i] = g.ID
		}
		id, err := matchID(args[0], ids)
		if err != nil {
			return err
		}
		var g model.FinancialGoal
		for _, candidate := range snap.Goals {
			if candidate.ID == id {
				g = candidate
			}
		}

		flags := cmd.Flags()
		if flags.Changed("target") {
			if g.TargetAmount, err = parseMoney(goalTarget); err != nil {
				return err
			}
		}
		if flags.Changed("saved") {
			if g.CurrentAmount, err = parseMoney(goalCurrent); err != nil {
				return err
			}
		}
		if flags.Changed("deposit") {
			deposit, err := parseMoney(goalDeposit)
			if err != nil {
				return err
			}
			g.CurrentAmount = g.CurrentAmount.Add(deposit)
		}
		if flags.Changed("deadline") {
			if g.Deadline, err = parseDateArg(goalDeadline); err != nil {
				return err
			}
		}
		if flags.Changed("title") {
			g.Title = goalTitle
		}

		if err := st.UpdateGoal(ctx, g); err != nil {
			return err
		}
		now, err := today()
		if err != nil {
			return err
		}
		p := pipeline.GoalProgress(g, now)
		fmt.Printf("  Updated %s  %s  %s\n", shortID(g.ID), g.Title, cli.FormatPercent(p.Percent))
		return nil
	})
}

func runGoalsRm(_ *cobra.Command, args []string) error {
	return withSnapshot(func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error {
		ids := make([]string, len(snap.Goals))
		for i, g := range snap.Goals {
			ids[i] = g.ID
		}
		id, err := matchID(args[0], ids)
		if err != nil {
			return err
		}
		if err := st.DeleteGoal(ctx, id); err != nil {
			return err
		}
		fmt.Printf("  Deleted goal %s\n", shortID(id))
		return nil
	})
}
