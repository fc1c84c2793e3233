package pipeline

import (
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// GoalProgress derives progress for a goal as of today. A zero target is
// treated as 1 for the percentage only.
func GoalProgress(g model.FinancialGoal, today time.Time) model.GoalProgress {
	target := NonNegative(g.TargetAmount)
	current := NonNegative(g.CurrentAmount)

	base := target
	if base.IsZero() {
		base = decimal.NewFromInt(1)
	}
	pct := Percent(current, base)
	if pct > 100 {
		pct = 100
	}
	p := model.GoalProgress{
		Goal:      g,
		Percent:   pct,
		Remaining: NonNegative(target.Sub(current)),
		Completed: pct >= 100,
	}
	if deadline, ok := ParseDate(g.Deadline); ok {
		p.DaysLeft = daysBetween(DateOf(today), deadline)
		p.Overdue = p.DaysLeft < 0 && !p.Completed
	}
	return p
}
