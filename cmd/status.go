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

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "One-line cycle status for shell prompts",
	RunE:  runStatus,
}

var statusPlain bool

func init() {
	statusCmd.Flags().BoolVar(&statusPlain, "plain", false, "No colour")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		fmt.Println(statusLine(pipeline.BuildCycleReport(snap, now), statusPlain))
		return nil
	})
}

// statusLine renders e.g. "$1,234.00/$4,000.00 30.9% · 12d left · ok".
func statusLine(r model.CycleReport, plain bool) string {
	verdict := "ok"
	if r.Projection.WillOverspend {
		verdict = "overspend"
	}
	if !plain {
		if r.Projection.WillOverspend {
			verdict = cli.Bad(verdict)
		} else {
			verdict = cli.Good(verdict)
		}
	}
	return fmt.Sprintf("%s/%s %s · %dd left · %s",
		cli.FormatMoney(r.Spend.Total),
		cli.FormatMoney(r.NetSalary),
		cli.FormatPercent(r.PercentSpent),
		r.Cycle.RemainingDays,
		verdict)
}
