package pipeline

import (
	"testing"

	"github.com/theirongolddev/paycycle/internal/model"
)

func TestGoalProgress(t *testing.T) {
	g := model.FinancialGoal{Title: "Trip", TargetAmount: dec("2000"), CurrentAmount: dec("500"), Deadline: "2024-12-01"}
	p := GoalProgress(g, day(t, "2024-06-01"))

	if p.Percent != 25 {
		t.Errorf("Percent = %v, want 25", p.Percent)
	}
	assertDec(t, "Remaining", p.Remaining, "1500")
	if p.DaysLeft != 183 {
		t.Errorf("DaysLeft = %d, want 183", p.DaysLeft)
	}
	if p.Completed || p.Overdue {
		t.Errorf("Completed=%v Overdue=%v, want both false", p.Completed, p.Overdue)
	}
}

func TestGoalProgress_CompletedCapsAt100(t *testing.T) {
	g := model.FinancialGoal{TargetAmount: dec("100"), CurrentAmount: dec("250"), Deadline: "2024-01-01"}
	p := GoalProgress(g, day(t, "2024-06-01"))
	if p.Percent != 100 || !p.Completed {
		t.Errorf("Percent=%v Completed=%v, want 100 true", p.Percent, p.Completed)
	}
	if p.Overdue {
		t.Error("completed goal reported overdue")
	}
	assertDec(t, "Remaining", p.Remaining, "0")
}

func TestGoalProgress_OverdueAndZeroTarget(t *testing.T) {
	p := GoalProgress(model.FinancialGoal{CurrentAmount: dec("0"), Deadline: "2024-05-01"}, day(t, "2024-06-01"))
	if !p.Overdue {
		t.Error("Overdue = false past deadline")
	}
	if p.Percent != 0 {
		t.Errorf("Percent = %v, want 0 for zero target", p.Percent)
	}
	assertDec(t, "Remaining for zero target", p.Remaining, "0")

	noDeadline := GoalProgress(model.FinancialGoal{TargetAmount: dec("10")}, day(t, "2024-06-01"))
	if noDeadline.DaysLeft != 0 || noDeadline.Overdue {
		t.Errorf("no deadline: DaysLeft=%d Overdue=%v", noDeadline.DaysLeft, noDeadline.Overdue)
	}
}
